package gateway

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v74"
)

// Translation table from gateway card-error codes to the French messages the
// marketing site displays. Unmapped codes fall back to the gateway's own
// message text, then to a generic string.
var cardErrorMessages = map[string]string{
	"card_declined":    "Votre carte a été refusée.",
	"expired_card":     "Votre carte a expiré.",
	"incorrect_cvc":    "Le code de sécurité de votre carte est incorrect.",
	"processing_error": "Une erreur est survenue lors du traitement de votre carte.",
	"incorrect_number": "Votre numéro de carte est invalide.",
}

const genericErrorMessage = "Une erreur est survenue lors du paiement. Veuillez réessayer."

const timeoutMessage = "gateway timeout"

// translateError converts any error from the gateway SDK into a *Error
// carrying a stable, user-displayable message. Context expiry counts as a
// gateway failure so a slow processor cannot strand a request in limbo.
func translateError(err error, reference string) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{
			Code:      "gateway_timeout",
			Message:   timeoutMessage,
			Reference: reference,
		}
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		code := string(stripeErr.Code)
		if msg, ok := cardErrorMessages[code]; ok {
			return &Error{Code: code, Message: msg, Reference: reference}
		}
		if stripeErr.Msg != "" {
			return &Error{Code: code, Message: stripeErr.Msg, Reference: reference}
		}
		return &Error{Code: code, Message: genericErrorMessage, Reference: reference}
	}

	return &Error{Message: genericErrorMessage, Reference: reference}
}
