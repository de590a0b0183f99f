package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/subtrack/subtrack/internal/billing"
	"github.com/subtrack/subtrack/internal/calendar"
	"github.com/subtrack/subtrack/internal/identity"
	"github.com/subtrack/subtrack/internal/model"
	"github.com/subtrack/subtrack/internal/secure"
	"github.com/subtrack/subtrack/internal/store"
)

const dateLayout = "2006-01-02"

type Handler struct {
	repo        store.Repository
	log         *logrus.Logger
	val         *validator.Validate
	cipher      *secure.Cipher
	ids         identity.Provider
	trialWindow int
	now         func() time.Time
}

func NewHandler(r store.Repository, l *logrus.Logger, c *secure.Cipher, ids identity.Provider, trialWindow int) *Handler {
	return &Handler{
		repo:        r,
		log:         l,
		val:         validator.New(),
		cipher:      c,
		ids:         ids,
		trialWindow: trialWindow,
		now:         time.Now,
	}
}

// RequireOwner resolves the caller's owner id and stores it on the request
// context; unauthenticated requests never reach the handlers below.
func (h *Handler) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, err := h.ids.OwnerID(r)
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithOwner(r.Context(), owner)))
	})
}

func (h *Handler) owner(r *http.Request) uuid.UUID {
	id, _ := identity.OwnerFromContext(r.Context())
	return id
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("invalid create body: %v", err)
		h.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.val.Struct(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub, ok := h.buildSubscription(w, &req)
	if !ok {
		return
	}
	sub.OwnerID = h.owner(r)
	sub.Status = model.StatusActive
	if req.Status != nil {
		sub.Status = *req.Status
	}
	if err := h.repo.Create(sub); err != nil {
		h.log.Errorf("create failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create")
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sub)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	s, err := h.repo.Get(h.owner(r), id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	owner := h.owner(r)
	existing, err := h.repo.Get(owner, id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	var req model.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.val.Struct(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub, ok := h.buildSubscription(w, &req)
	if !ok {
		return
	}
	sub.ID = id
	sub.OwnerID = owner
	sub.CreatedAt = existing.CreatedAt
	sub.Status = existing.Status
	if req.Status != nil {
		sub.Status = *req.Status
	}
	// keep the derived date when neither anchor changed and no override came in
	if req.NextPaymentDate == nil &&
		sub.StartDate.Equal(existing.StartDate) && sub.BillingCycle == existing.BillingCycle {
		sub.NextPaymentDate = existing.NextPaymentDate
	}
	if req.AccountPassword == "" {
		sub.AccountPassword = existing.AccountPassword
	}
	if req.PaymentMethodNumber == "" {
		sub.PaymentMethodNumber = existing.PaymentMethodNumber
	}
	if err := h.repo.Update(sub); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "failed to update")
		return
	}
	json.NewEncoder(w).Encode(sub)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(h.owner(r), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "failed to delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.List(h.owner(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed")
		return
	}
	if res == nil {
		res = []model.Subscription{}
	}
	if s := r.URL.Query().Get("status"); s != "" {
		res = billing.FilterByField(res, billing.ByStatus, s)
	}
	if c := r.URL.Query().Get("category"); c != "" {
		res = billing.FilterByField(res, billing.ByCategory, c)
	}
	json.NewEncoder(w).Encode(res)
}

// Advance moves a record one billing cycle forward, marking the upcoming
// payment as handled. One-time and trial records do not move.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	sub, err := h.repo.Get(h.owner(r), id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	next, err := billing.Advance(sub.NextPaymentDate, sub.BillingCycle)
	if err != nil {
		h.log.Errorf("advance failed for %s: %v", sub.ID, err)
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !next.Equal(sub.NextPaymentDate) {
		sub.NextPaymentDate = next
		if err := h.repo.Update(sub); err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to update")
			return
		}
	}
	json.NewEncoder(w).Encode(sub)
}

type summaryResponse struct {
	TotalMonthlySpend string               `json:"total_monthly_spend"`
	ActiveCount       int                  `json:"active_count"`
	DueSoon           []model.Subscription `json:"due_soon"`
	TrialsEndingSoon  []model.Subscription `json:"trials_ending_soon"`
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(h.owner(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed")
		return
	}
	window := h.trialWindow
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
		window = n
	}
	now := h.now()
	resp := summaryResponse{
		TotalMonthlySpend: billing.TotalMonthlySpend(records).String(),
		ActiveCount:       billing.CountActive(records),
		DueSoon:           billing.DueSoon(records, now),
		TrialsEndingSoon:  billing.TrialsEndingSoon(records, window, now),
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) CalendarLink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	sub, err := h.repo.Get(h.owner(r), id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	link := calendar.EventURL(sub.Name+" payment", sub.NextPaymentDate, sub.Price+" "+sub.Currency)
	json.NewEncoder(w).Encode(map[string]string{"url": link})
}

// Password decrypts and returns the stored account password.
func (h *Handler) Password(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	sub, err := h.repo.Get(h.owner(r), id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if sub.AccountPassword == "" {
		h.writeError(w, http.StatusNotFound, "no password stored")
		return
	}
	plain, err := h.cipher.Decrypt(sub.AccountPassword)
	if err != nil {
		h.log.Errorf("decrypt failed for %s: %v", sub.ID, err)
		h.writeError(w, http.StatusInternalServerError, "decryption failure")
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"password": plain})
}

// buildSubscription turns a validated request into an entity: parses price
// and dates, derives the next payment date, masks the payment number and
// encrypts the password. Writes the error response itself on failure.
func (h *Handler) buildSubscription(w http.ResponseWriter, req *model.SubscriptionRequest) (*model.Subscription, bool) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "price must be a non-negative decimal")
		return nil, false
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid start_date format, expected YYYY-MM-DD")
		return nil, false
	}
	var next time.Time
	if req.NextPaymentDate != nil {
		next, err = time.Parse(dateLayout, *req.NextPaymentDate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid next_payment_date format, expected YYYY-MM-DD")
			return nil, false
		}
		if next.Before(start) {
			h.writeError(w, http.StatusBadRequest, "next_payment_date before start_date")
			return nil, false
		}
	} else {
		next, err = billing.NextPaymentDate(start, req.BillingCycle)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
	}
	reminder := 3
	if req.ReminderDays != nil {
		reminder = *req.ReminderDays
	}
	sub := &model.Subscription{
		Name:             req.Name,
		Price:            price.String(),
		Currency:         req.Currency,
		BillingCycle:     req.BillingCycle,
		SubscriptionType: req.SubscriptionType,
		StartDate:        start,
		NextPaymentDate:  next,
		ReminderDays:     reminder,
		Category:         req.Category,
	}
	if req.PaymentMethodNumber != "" {
		sub.PaymentMethodNumber = secure.Mask(req.PaymentMethodNumber)
	}
	if req.AccountPassword != "" {
		enc, err := h.cipher.Encrypt(req.AccountPassword)
		if err != nil {
			h.log.Errorf("encrypt failed: %v", err)
			h.writeError(w, http.StatusInternalServerError, "failed to store password")
			return nil, false
		}
		sub.AccountPassword = enc
	}
	return sub, true
}

// utilities

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
