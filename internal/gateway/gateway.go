package gateway

import (
	"fmt"
	"math"
)

// Gateway payment-intent statuses, as reported by Stripe. The orchestrator
// maps these onto service-request statuses; this package never interprets
// them beyond translation of errors.
const (
	StatusSucceeded             = "succeeded"
	StatusRequiresAction        = "requires_action"
	StatusRequiresConfirmation  = "requires_confirmation"
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusProcessing            = "processing"
	StatusCanceled              = "canceled"
)

// Intent is the adapter's view of a gateway payment intent.
type Intent struct {
	ID           string
	Status       string
	ClientSecret string
	Amount       int64
	Currency     string
	Reference    string
}

// Error is a structured gateway failure: the gateway error code (if any),
// a user-displayable translated message, and the service-request reference
// for correlation. The adapter never swallows a gateway error silently.
type Error struct {
	Code      string
	Message   string
	Reference string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("gateway error: %s", e.Message)
}

// ToMinorUnits converts a major-unit amount to the gateway's minor units.
// Rounding guards against float artifacts: 99.99 must become 9999, not 9998.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
