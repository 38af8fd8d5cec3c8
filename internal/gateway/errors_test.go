package gateway

import (
	"context"
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/stripe/stripe-go/v74"
)

var _ = ginkgo.Describe("translateError", func() {
	ginkgo.Context("when the gateway reports a known card error", func() {
		ginkgo.It("should return the French message for a declined card", func() {
			err := &stripe.Error{Code: stripe.ErrorCode("card_declined"), Msg: "Your card was declined."}

			gwErr := translateError(err, "REF-1234-567890")

			gomega.Expect(gwErr.Code).To(gomega.Equal("card_declined"))
			gomega.Expect(gwErr.Message).To(gomega.Equal("Votre carte a été refusée."))
			gomega.Expect(gwErr.Reference).To(gomega.Equal("REF-1234-567890"))
		})

		ginkgo.It("should translate every mapped card error code", func() {
			expected := map[string]string{
				"card_declined":    "Votre carte a été refusée.",
				"expired_card":     "Votre carte a expiré.",
				"incorrect_cvc":    "Le code de sécurité de votre carte est incorrect.",
				"processing_error": "Une erreur est survenue lors du traitement de votre carte.",
				"incorrect_number": "Votre numéro de carte est invalide.",
			}

			for code, message := range expected {
				gwErr := translateError(&stripe.Error{Code: stripe.ErrorCode(code)}, "")
				gomega.Expect(gwErr.Message).To(gomega.Equal(message), "code %s", code)
			}
		})
	})

	ginkgo.Context("when the gateway reports an unmapped error", func() {
		ginkgo.It("should fall back to the gateway's own message", func() {
			err := &stripe.Error{Code: stripe.ErrorCode("amount_too_small"), Msg: "Amount must be at least 0.50 eur"}

			gwErr := translateError(err, "")

			gomega.Expect(gwErr.Code).To(gomega.Equal("amount_too_small"))
			gomega.Expect(gwErr.Message).To(gomega.Equal("Amount must be at least 0.50 eur"))
		})

		ginkgo.It("should fall back to the generic message when no text is available", func() {
			gwErr := translateError(&stripe.Error{Code: stripe.ErrorCode("mystery_code")}, "")

			gomega.Expect(gwErr.Message).To(gomega.Equal("Une erreur est survenue lors du paiement. Veuillez réessayer."))
		})
	})

	ginkgo.Context("when the call times out", func() {
		ginkgo.It("should return a timeout error, not a generic one", func() {
			gwErr := translateError(context.DeadlineExceeded, "REF-0001-000001")

			gomega.Expect(gwErr.Code).To(gomega.Equal("gateway_timeout"))
			gomega.Expect(gwErr.Message).To(gomega.Equal("gateway timeout"))
			gomega.Expect(gwErr.Reference).To(gomega.Equal("REF-0001-000001"))
		})

		ginkgo.It("should unwrap a wrapped deadline error", func() {
			wrapped := errors.Join(errors.New("request failed"), context.DeadlineExceeded)

			gwErr := translateError(wrapped, "")

			gomega.Expect(gwErr.Code).To(gomega.Equal("gateway_timeout"))
		})
	})

	ginkgo.Context("when the error is not from the gateway SDK", func() {
		ginkgo.It("should return the generic French message", func() {
			gwErr := translateError(errors.New("connection refused"), "")

			gomega.Expect(gwErr.Code).To(gomega.BeEmpty())
			gomega.Expect(gwErr.Message).To(gomega.Equal("Une erreur est survenue lors du paiement. Veuillez réessayer."))
		})
	})
})

var _ = ginkgo.Describe("ToMinorUnits", func() {
	ginkgo.It("should convert euros to cents without float drift", func() {
		gomega.Expect(ToMinorUnits(99.99)).To(gomega.Equal(int64(9999)))
		gomega.Expect(ToMinorUnits(0.1)).To(gomega.Equal(int64(10)))
		gomega.Expect(ToMinorUnits(129.95)).To(gomega.Equal(int64(12995)))
		gomega.Expect(ToMinorUnits(0)).To(gomega.Equal(int64(0)))
	})
})
