package payment

import (
	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/common/validation"
)

// CreatePaymentIntentDTO is the payload from the payment page. Reference is
// optional: an unknown or missing reference is tolerated and a service
// request is synthesized rather than hard-failing the paying user.
type CreatePaymentIntentDTO struct {
	Reference       string  `json:"reference,omitempty"`
	PaymentMethodID string  `json:"paymentMethodId"`
	Amount          float64 `json:"amount,omitempty"`
	Currency        string  `json:"currency,omitempty"`
}

func (d *CreatePaymentIntentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("paymentMethodId", d.PaymentMethodID).Required().MaxLength(255)

	if d.Amount < 0 {
		return errors.NewValidationFieldError("amount", "amount must not be negative", errors.ErrCodeInvalidAmount)
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// CompletePaymentDTO identifies the intent to reconcile after client-side
// 3-D Secure completion, either directly or via the request reference.
type CompletePaymentDTO struct {
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	Reference       string `json:"reference,omitempty"`
}

func (d *CompletePaymentDTO) Validate() error {
	if d.PaymentIntentID == "" && d.Reference == "" {
		return errors.NewValidationError("paymentIntentId or reference is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

// PaymentIntentResult is the orchestrator's answer to a create-intent call.
type PaymentIntentResult struct {
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	ClientSecret    string `json:"clientSecret,omitempty"`
	PaymentIntentID string `json:"paymentIntentId"`
	RequiresAction  bool   `json:"requiresAction"`
}

type CompletePaymentResult struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// Sync reconciliation outcomes per gateway intent.
const (
	SyncActionUpdated   = "updated"
	SyncActionRecovered = "recovered"
	SyncActionSkipped   = "skipped"
)

type SyncResult struct {
	PaymentIntentID string `json:"paymentIntentId"`
	Reference       string `json:"reference,omitempty"`
	Action          string `json:"action"`
}
