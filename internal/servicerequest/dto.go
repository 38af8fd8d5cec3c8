package servicerequest

import (
	"regexp"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/common/validation"
)

var (
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}$`)
)

var connectionTypes = []string{
	"nouveau_raccordement",
	"augmentation_puissance",
	"raccordement_provisoire",
	"deplacement_compteur",
}

// CreateServiceRequestDTO is the intake payload from the marketing site.
// Fields are named and optional; unknown JSON keys are rejected at decode
// time rather than stored as an open-ended bag.
type CreateServiceRequestDTO struct {
	Reference      string  `json:"reference,omitempty"`
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Address        string  `json:"address,omitempty"`
	PostalCode     string  `json:"postal_code,omitempty"`
	City           string  `json:"city,omitempty"`
	ConnectionType string  `json:"connection_type,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	Currency       string  `json:"currency,omitempty"`
}

func (d *CreateServiceRequestDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("email", d.Email).Matches(emailPattern, errors.ErrCodeValidationFailed).MaxLength(254)
	validator.Field("postal_code", d.PostalCode).Matches(postalCodePattern, errors.ErrCodeValidationFailed)
	validator.Field("connection_type", d.ConnectionType).OneOf(connectionTypes, errors.ErrCodeValidationFailed)
	validator.Field("name", d.Name).MaxLength(200)

	if d.Amount < 0 {
		return errors.NewValidationFieldError("amount", "amount must not be negative", errors.ErrCodeInvalidAmount)
	}
	if d.Reference != "" && !IsValidReference(d.Reference) {
		return errors.NewValidationFieldError("reference", "reference must match REF-####-######", errors.ErrCodeInvalidReference)
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateServiceRequestDTO carries a partial update; nil fields are left
// untouched.
type UpdateServiceRequestDTO struct {
	Name           *string  `json:"name,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Address        *string  `json:"address,omitempty"`
	PostalCode     *string  `json:"postal_code,omitempty"`
	City           *string  `json:"city,omitempty"`
	ConnectionType *string  `json:"connection_type,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	Currency       *string  `json:"currency,omitempty"`
}
