package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/subtrack/subtrack/internal/config"
	"github.com/subtrack/subtrack/internal/handlers"
	"github.com/subtrack/subtrack/internal/identity"
	"github.com/subtrack/subtrack/internal/secure"
	"github.com/subtrack/subtrack/internal/store"
)

func main() {
	log := logrus.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Infof("starting subtrack service on %s", cfg.Server.Address)

	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("can't connect to db: %v", err)
	}
	defer db.Close()

	// run simple migration on startup
	if err := store.EnsureMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	cipher, err := secure.NewCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("invalid encryption key: %v", err)
	}

	repo := store.NewPostgresRepository(db, log)
	h := handlers.NewHandler(repo, log, cipher, identity.HeaderProvider{}, cfg.TrialWindow)

	r := chi.NewRouter()
	// middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(log))

	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(h.RequireOwner)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/summary", h.Summary)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/advance", h.Advance)
		r.Get("/{id}/calendar-link", h.CalendarLink)
		r.Get("/{id}/password", h.Password)
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Info("server stopped")
}

func loggingMiddleware(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := middleware.GetReqID(r.Context())
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(logrus.Fields{
				"req_id": rid,
				"method": r.Method,
				"path":   r.URL.Path,
				"dur_ms": time.Since(start).Milliseconds(),
			}).Info("handled request")
		})
	}
}
