package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/subtrack/subtrack/internal/model"
)

// ErrNotFound covers both a missing id and an id owned by somebody else;
// callers cannot tell the two apart.
var ErrNotFound = errors.New("subscription not found")

// Repository is the persistence collaborator. Every operation is scoped by
// the owner id; implementations must never return another owner's rows.
type Repository interface {
	Create(sub *model.Subscription) error
	Get(ownerID, id uuid.UUID) (*model.Subscription, error)
	Update(sub *model.Subscription) error
	Delete(ownerID, id uuid.UUID) error
	List(ownerID uuid.UUID) ([]model.Subscription, error)
}

type PostgresRepo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewPostgresRepository(db *sqlx.DB, log *logrus.Logger) *PostgresRepo {
	return &PostgresRepo{db: db, log: log}
}

func EnsureMigrations(db *sqlx.DB) error {
	// minimal programmatic migration: create extension and table
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL,
			currency TEXT NOT NULL,
			billing_cycle TEXT NOT NULL,
			subscription_type TEXT,
			start_date DATE NOT NULL,
			next_payment_date DATE NOT NULL,
			reminder_days INTEGER NOT NULL DEFAULT 3,
			status TEXT NOT NULL DEFAULT 'active',
			category TEXT NOT NULL DEFAULT '',
			payment_method_number TEXT NOT NULL DEFAULT '',
			account_password TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_owner ON subscriptions(owner_id);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const allColumns = `id,owner_id,name,price,currency,billing_cycle,subscription_type,start_date,next_payment_date,reminder_days,status,category,payment_method_number,account_password,created_at,updated_at`

func (p *PostgresRepo) Create(sub *model.Subscription) error {
	q := `INSERT INTO subscriptions (` + allColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	_, err := p.db.Exec(q,
		sub.ID, sub.OwnerID, sub.Name, sub.Price, sub.Currency, sub.BillingCycle,
		sub.SubscriptionType, sub.StartDate, sub.NextPaymentDate, sub.ReminderDays,
		sub.Status, sub.Category, sub.PaymentMethodNumber, sub.AccountPassword,
		sub.CreatedAt, sub.UpdatedAt)
	return err
}

func (p *PostgresRepo) Get(ownerID, id uuid.UUID) (*model.Subscription, error) {
	var s model.Subscription
	q := `SELECT ` + allColumns + ` FROM subscriptions WHERE owner_id=$1 AND id=$2`
	if err := p.db.Get(&s, q, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (p *PostgresRepo) Update(sub *model.Subscription) error {
	sub.UpdatedAt = time.Now().UTC()
	q := `UPDATE subscriptions SET name=$1, price=$2, currency=$3, billing_cycle=$4,
	subscription_type=$5, start_date=$6, next_payment_date=$7, reminder_days=$8,
	status=$9, category=$10, payment_method_number=$11, account_password=$12,
	updated_at=$13 WHERE owner_id=$14 AND id=$15`
	res, err := p.db.Exec(q,
		sub.Name, sub.Price, sub.Currency, sub.BillingCycle,
		sub.SubscriptionType, sub.StartDate, sub.NextPaymentDate, sub.ReminderDays,
		sub.Status, sub.Category, sub.PaymentMethodNumber, sub.AccountPassword,
		sub.UpdatedAt, sub.OwnerID, sub.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresRepo) Delete(ownerID, id uuid.UUID) error {
	q := `DELETE FROM subscriptions WHERE owner_id=$1 AND id=$2`
	res, err := p.db.Exec(q, ownerID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresRepo) List(ownerID uuid.UUID) ([]model.Subscription, error) {
	q := `SELECT ` + allColumns + ` FROM subscriptions WHERE owner_id=$1 ORDER BY created_at, id`
	rows := []model.Subscription{}
	if err := p.db.Select(&rows, q, ownerID); err != nil {
		return nil, err
	}
	return rows, nil
}
