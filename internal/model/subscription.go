package model

import (
	"time"

	"github.com/google/uuid"
)

// Billing cycle tags. The cycle drives date advancement and, for records
// predating the subscription_type column, spend normalization.
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
	CycleOneTime = "one-time"
	CycleTrial   = "trial"
)

// Subscription type tags, added in a later schema revision. When present the
// type wins over BillingCycle for spend inclusion.
const (
	TypeTrial        = "trial"
	TypeVoucher      = "voucher"
	TypeSubscription = "subscription"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Subscription is a single tracked recurring payment. Price is exact decimal
// text; PaymentMethodNumber is stored masked and AccountPassword encrypted,
// both opaque to this package.
type Subscription struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	OwnerID             uuid.UUID `db:"owner_id" json:"owner_id"`
	Name                string    `db:"name" json:"name"`
	Price               string    `db:"price" json:"price"`
	Currency            string    `db:"currency" json:"currency"`
	BillingCycle        string    `db:"billing_cycle" json:"billing_cycle"`
	SubscriptionType    *string   `db:"subscription_type" json:"subscription_type,omitempty"`
	StartDate           time.Time `db:"start_date" json:"start_date"`
	NextPaymentDate     time.Time `db:"next_payment_date" json:"next_payment_date"`
	ReminderDays        int       `db:"reminder_days" json:"reminder_days"`
	Status              string    `db:"status" json:"status"`
	Category            string    `db:"category" json:"category,omitempty"`
	PaymentMethodNumber string    `db:"payment_method_number" json:"payment_method_number,omitempty"`
	AccountPassword     string    `db:"account_password" json:"-"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Create/Update request body
type SubscriptionRequest struct {
	Name                string  `json:"name" validate:"required,min=1,max=100"`
	Price               string  `json:"price" validate:"required"`
	Currency            string  `json:"currency" validate:"required,oneof=USD EUR GBP RUB"`
	BillingCycle        string  `json:"billing_cycle" validate:"required,oneof=monthly yearly one-time trial"`
	SubscriptionType    *string `json:"subscription_type,omitempty" validate:"omitempty,oneof=trial voucher subscription"`
	StartDate           string  `json:"start_date" validate:"required"`
	NextPaymentDate     *string `json:"next_payment_date,omitempty"`
	ReminderDays        *int    `json:"reminder_days,omitempty" validate:"omitempty,min=0,max=30"`
	Status              *string `json:"status,omitempty" validate:"omitempty,oneof=active cancelled expired"`
	Category            string  `json:"category,omitempty"`
	PaymentMethodNumber string  `json:"payment_method_number,omitempty"`
	AccountPassword     string  `json:"account_password,omitempty"`
}
