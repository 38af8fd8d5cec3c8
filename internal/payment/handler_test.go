package payment

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	paymodel "github.com/raccordement/raccordement-service/internal/core/datamodel/payment"
	srmodel "github.com/raccordement/raccordement-service/internal/core/datamodel/servicerequest"
	"github.com/raccordement/raccordement-service/internal/gateway"
)

var _ = ginkgo.Describe("PaymentHandler", func() {
	var (
		handler  *Handler
		router   *chi.Mux
		records  *mockRecordRepo
		requests *mockRequestStore
		gw       *mockGateway
	)

	ginkgo.BeforeEach(func() {
		records = newMockRecordRepo()
		requests = newMockRequestStore()
		gw = newMockGateway()
		service := NewService(records, requests, gw, nil, 99.99, "eur", slog.Default())
		handler = NewHandler(service, slog.Default())

		router = chi.NewRouter()
		router.Post("/api/create-payment-intent", handler.CreatePaymentIntent)
		router.Get("/api/payment-status/{reference}", handler.GetPaymentStatus)
		router.Post("/api/complete-payment", handler.CompletePayment)
		router.Post("/api/admin/sync-payments", handler.SyncPayments)
	})

	doJSON := func(method, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
		var body bytes.Buffer
		if payload != nil {
			gomega.Expect(json.NewEncoder(&body).Encode(payload)).To(gomega.Succeed())
		}
		req := httptest.NewRequest(method, path, &body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var decoded map[string]any
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &decoded)).To(gomega.Succeed())
		return rec, decoded
	}

	ginkgo.Describe("POST /api/create-payment-intent", func() {
		ginkgo.It("should return the camelCase gateway outcome", func() {
			requests.requests["REF-1234-567890"] = &srmodel.ServiceRequest{
				Reference: "REF-1234-567890",
				Amount:    99.99,
				Currency:  "eur",
			}

			rec, body := doJSON(http.MethodPost, "/api/create-payment-intent", map[string]any{
				"reference":       "REF-1234-567890",
				"paymentMethodId": "pm_card_visa",
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			gomega.Expect(body["status"]).To(gomega.Equal("succeeded"))
			gomega.Expect(body["paymentIntentId"]).To(gomega.Equal("pi_mock_1"))
			gomega.Expect(body["clientSecret"]).To(gomega.Equal("pi_mock_1_secret"))
			gomega.Expect(body["requiresAction"]).To(gomega.BeFalse())
		})

		ginkgo.It("should return 400 with the French message on a card decline", func() {
			requests.requests["REF-1234-567890"] = &srmodel.ServiceRequest{Reference: "REF-1234-567890"}
			gw.createErr = &gateway.Error{
				Code:      "card_declined",
				Message:   "Votre carte a été refusée.",
				Reference: "REF-1234-567890",
			}

			rec, body := doJSON(http.MethodPost, "/api/create-payment-intent", map[string]any{
				"reference":       "REF-1234-567890",
				"paymentMethodId": "pm_card_declined",
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body["success"]).To(gomega.BeFalse())
			gomega.Expect(body["error"]).To(gomega.Equal("Votre carte a été refusée."))
			gomega.Expect(body["reference"]).To(gomega.Equal("REF-1234-567890"))
		})

		ginkgo.It("should reject unknown JSON fields", func() {
			rec, body := doJSON(http.MethodPost, "/api/create-payment-intent", map[string]any{
				"paymentMethodId": "pm_card_visa",
				"surprise":        true,
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body["success"]).To(gomega.BeFalse())
		})

		ginkgo.It("should reject a missing payment method", func() {
			rec, body := doJSON(http.MethodPost, "/api/create-payment-intent", map[string]any{
				"reference": "REF-1234-567890",
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body["success"]).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("GET /api/payment-status/{reference}", func() {
		ginkgo.It("should return the stored record", func() {
			requests.requests["REF-1234-567890"] = &srmodel.ServiceRequest{
				Reference: "REF-1234-567890",
				Amount:    99.99,
			}
			_, createBody := doJSON(http.MethodPost, "/api/create-payment-intent", map[string]any{
				"reference":       "REF-1234-567890",
				"paymentMethodId": "pm_card_visa",
			})
			gomega.Expect(createBody["success"]).To(gomega.BeTrue())

			rec, body := doJSON(http.MethodGet, "/api/payment-status/REF-1234-567890", nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			payment, ok := body["payment"].(map[string]any)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(payment["status"]).To(gomega.Equal("succeeded"))
			gomega.Expect(payment["paymentIntentId"]).To(gomega.Equal("pi_mock_1"))
			gomega.Expect(payment["reference"]).To(gomega.Equal("REF-1234-567890"))
		})

		ginkgo.It("should return 404 for an unknown reference", func() {
			rec, body := doJSON(http.MethodGet, "/api/payment-status/REF-0000-000000", nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(body["success"]).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("POST /api/complete-payment", func() {
		ginkgo.It("should reconcile and echo the final status", func() {
			requests.requests["REF-1234-567890"] = &srmodel.ServiceRequest{Reference: "REF-1234-567890"}
			records.records["REF-1234-567890"] = mustRecord("REF-1234-567890", "pi_mock_1")
			gw.intents["pi_mock_1"] = &gateway.Intent{
				ID:        "pi_mock_1",
				Status:    gateway.StatusSucceeded,
				Amount:    9999,
				Currency:  "eur",
				Reference: "REF-1234-567890",
			}

			rec, body := doJSON(http.MethodPost, "/api/complete-payment", map[string]any{
				"paymentIntentId": "pi_mock_1",
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["status"]).To(gomega.Equal("succeeded"))
			gomega.Expect(body["reference"]).To(gomega.Equal("REF-1234-567890"))
		})

		ginkgo.It("should return 400 when neither identifier is supplied", func() {
			rec, _ := doJSON(http.MethodPost, "/api/complete-payment", map[string]any{})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("POST /api/admin/sync-payments", func() {
		ginkgo.It("should report per-action counts", func() {
			requests.requests["REF-1111-000001"] = &srmodel.ServiceRequest{Reference: "REF-1111-000001"}
			records.records["REF-1111-000001"] = mustRecord("REF-1111-000001", "pi_sync_1")
			gw.listIntents = []*gateway.Intent{
				{ID: "pi_sync_1", Status: gateway.StatusSucceeded, Amount: 9999, Currency: "eur", Reference: "REF-1111-000001"},
				{ID: "pi_sync_2", Status: gateway.StatusSucceeded, Amount: 9999, Currency: "eur"},
			}

			rec, body := doJSON(http.MethodPost, "/api/admin/sync-payments", nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["updated"]).To(gomega.BeEquivalentTo(1))
			gomega.Expect(body["skipped"]).To(gomega.BeEquivalentTo(1))
			gomega.Expect(body["recovered"]).To(gomega.BeEquivalentTo(0))
		})
	})
})

func mustRecord(reference, paymentIntentID string) *paymodel.PaymentRecord {
	return &paymodel.PaymentRecord{
		Reference:       reference,
		PaymentIntentID: paymentIntentID,
		Amount:          99.99,
		Currency:        "eur",
		Status:          "requires_action",
	}
}
