package servicerequest

import (
	"time"
)

// Service request lifecycle statuses. The status is always derived from the
// most recently observed gateway status for the associated payment intent;
// it is a cache of the gateway's view, never an independent ledger.
const (
	StatusPendingPayment        = "pending_payment"
	StatusPaid                  = "paid"
	StatusPendingAuthentication = "pending_authentication"
	StatusPaymentProcessing     = "payment_processing"
	StatusPaymentFailed         = "payment_failed"
)

type ServiceRequest struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Reference       string    `json:"reference" gorm:"column:reference;not null;uniqueIndex"`
	Status          string    `json:"status" gorm:"column:status;default:pending_payment"`
	Amount          float64   `json:"amount" gorm:"column:amount"`
	Currency        string    `json:"currency" gorm:"column:currency;default:eur"`
	PaymentIntentID *string   `json:"payment_intent_id,omitempty" gorm:"column:payment_intent_id"`
	ErrorMessage    *string   `json:"error_message,omitempty" gorm:"column:error_message"`
	AutoCreated     bool      `json:"auto_created" gorm:"column:auto_created;default:false"`
	Name            string    `json:"name,omitempty" gorm:"column:name"`
	Email           string    `json:"email,omitempty" gorm:"column:email"`
	Phone           string    `json:"phone,omitempty" gorm:"column:phone"`
	Address         string    `json:"address,omitempty" gorm:"column:address"`
	PostalCode      string    `json:"postal_code,omitempty" gorm:"column:postal_code"`
	City            string    `json:"city,omitempty" gorm:"column:city"`
	ConnectionType  string    `json:"connection_type,omitempty" gorm:"column:connection_type"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}
