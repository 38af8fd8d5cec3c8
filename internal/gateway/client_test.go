package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// stubGateway serves just enough of the processor's API for the client.
type stubGateway struct {
	server     *httptest.Server
	lastForm   map[string][]string
	createResp map[string]any
	statusCode int
	delay      time.Duration
}

func newStubGateway() *stubGateway {
	s := &stubGateway{
		statusCode: http.StatusOK,
		createResp: map[string]any{
			"id":            "pi_test_123",
			"status":        "succeeded",
			"client_secret": "pi_test_123_secret",
			"amount":        9999,
			"currency":      "eur",
			"metadata":      map[string]string{"reference": "REF-1234-567890"},
		},
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		if err := r.ParseForm(); err == nil {
			s.lastForm = r.Form
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.statusCode)
		json.NewEncoder(w).Encode(s.createResp)
	}))
	return s
}

func (s *stubGateway) Close() { s.server.Close() }

var _ = ginkgo.Describe("Client", func() {
	var (
		stub   *stubGateway
		client *Client
		logger *slog.Logger
	)

	ginkgo.BeforeEach(func() {
		stub = newStubGateway()
		logger = slog.Default()
		client = NewClient(Config{
			SecretKey:  "sk_test_stub",
			Timeout:    5 * time.Second,
			BackendURL: stub.server.URL,
		}, logger)
	})

	ginkgo.AfterEach(func() {
		stub.Close()
	})

	ginkgo.Describe("CreateAndConfirm", func() {
		ginkgo.It("should send minor units and the reference metadata", func() {
			intent, err := client.CreateAndConfirm(context.Background(), 99.99, "EUR", "pm_card_visa", "REF-1234-567890")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(intent.ID).To(gomega.Equal("pi_test_123"))
			gomega.Expect(intent.Status).To(gomega.Equal(StatusSucceeded))
			gomega.Expect(intent.ClientSecret).To(gomega.Equal("pi_test_123_secret"))
			gomega.Expect(intent.Reference).To(gomega.Equal("REF-1234-567890"))

			gomega.Expect(stub.lastForm["amount"]).To(gomega.ConsistOf("9999"))
			gomega.Expect(stub.lastForm["currency"]).To(gomega.ConsistOf("eur"))
			gomega.Expect(stub.lastForm["payment_method"]).To(gomega.ConsistOf("pm_card_visa"))
			gomega.Expect(stub.lastForm["confirm"]).To(gomega.ConsistOf("true"))
			gomega.Expect(stub.lastForm["metadata[reference]"]).To(gomega.ConsistOf("REF-1234-567890"))
		})

		ginkgo.It("should translate a card decline into a French gateway error", func() {
			stub.statusCode = http.StatusPaymentRequired
			stub.createResp = map[string]any{
				"error": map[string]any{
					"type":    "card_error",
					"code":    "card_declined",
					"message": "Your card was declined.",
				},
			}

			intent, err := client.CreateAndConfirm(context.Background(), 99.99, "eur", "pm_card_declined", "REF-0001-000002")

			gomega.Expect(intent).To(gomega.BeNil())
			var gwErr *Error
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(gwErr))
			gwErr = err.(*Error)
			gomega.Expect(gwErr.Code).To(gomega.Equal("card_declined"))
			gomega.Expect(gwErr.Message).To(gomega.Equal("Votre carte a été refusée."))
			gomega.Expect(gwErr.Reference).To(gomega.Equal("REF-0001-000002"))
		})
	})

	ginkgo.Describe("Retrieve", func() {
		ginkgo.It("should return the intent with its reference metadata", func() {
			stub.createResp["status"] = "requires_action"

			intent, err := client.Retrieve(context.Background(), "pi_test_123")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(intent.Status).To(gomega.Equal(StatusRequiresAction))
			gomega.Expect(intent.Reference).To(gomega.Equal("REF-1234-567890"))
		})
	})
})
