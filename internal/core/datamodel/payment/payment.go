package payment

import (
	"time"
)

// PaymentRecord mirrors the gateway's view of the latest payment attempt for
// one service request. Keyed by reference, not by intent id: a retried
// payment under the same reference overwrites the previous attempt.
type PaymentRecord struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	Reference           string    `json:"reference" gorm:"column:reference;not null;uniqueIndex"`
	PaymentIntentID     string    `json:"payment_intent_id" gorm:"column:payment_intent_id;not null"`
	Amount              float64   `json:"amount" gorm:"column:amount;not null"`
	Currency            string    `json:"currency" gorm:"column:currency;default:eur"`
	Status              string    `json:"status" gorm:"column:status"`
	RecoveredFromStripe bool      `json:"recovered_from_stripe" gorm:"column:recovered_from_stripe;default:false"`
	CreatedAt           time.Time `json:"created_at" gorm:"column:created_at"`
	LastUpdated         time.Time `json:"last_updated" gorm:"column:last_updated"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
