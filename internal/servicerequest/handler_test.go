package servicerequest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ServiceRequestHandler", func() {
	var (
		handler *Handler
		router  *chi.Mux
		repo    *mockRepository
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		service := NewService(repo, "eur", slog.Default())
		handler = NewHandler(service, slog.Default())

		router = chi.NewRouter()
		router.Post("/api/create-service-request", handler.CreateServiceRequest)
		router.Get("/api/service-requests/{reference}", handler.GetServiceRequest)
		router.Get("/api/admin/service-requests", handler.ListServiceRequests)
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

	ginkgo.Describe("POST /api/create-service-request", func() {
		ginkgo.It("should respond with the reference and the record under the request key", func() {
			rec, body := doJSON(http.MethodPost, "/api/create-service-request", map[string]any{
				"name":   "Jean Dupont",
				"amount": 129.80,
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			gomega.Expect(body["reference"]).To(gomega.MatchRegexp(`^REF-\d{4}-\d{6}$`))

			request, ok := body["request"].(map[string]any)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(request["status"]).To(gomega.Equal("pending_payment"))
			gomega.Expect(request["amount"]).To(gomega.BeEquivalentTo(129.80))
		})

		ginkgo.It("should reject an invalid payload", func() {
			rec, body := doJSON(http.MethodPost, "/api/create-service-request", map[string]any{
				"email": "not-an-email",
			})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body["success"]).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("GET /api/service-requests/{reference}", func() {
		ginkgo.It("should wrap the record under the request key", func() {
			_, created := doJSON(http.MethodPost, "/api/create-service-request", map[string]any{
				"name": "Jean Dupont",
			})
			reference := created["reference"].(string)

			rec, body := doJSON(http.MethodGet, "/api/service-requests/"+reference, nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["success"]).To(gomega.BeTrue())
			request, ok := body["request"].(map[string]any)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(request["reference"]).To(gomega.Equal(reference))
		})

		ginkgo.It("should return 404 for an unknown reference", func() {
			rec, body := doJSON(http.MethodGet, "/api/service-requests/REF-0000-000000", nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(body["success"]).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("GET /api/admin/service-requests", func() {
		ginkgo.It("should list records under the requests key", func() {
			_, created := doJSON(http.MethodPost, "/api/create-service-request", map[string]any{
				"name": "Jean Dupont",
			})
			gomega.Expect(created["success"]).To(gomega.BeTrue())

			rec, body := doJSON(http.MethodGet, "/api/admin/service-requests", nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body["requests"]).To(gomega.HaveLen(1))
			gomega.Expect(body["count"]).To(gomega.BeEquivalentTo(1))
		})
	})
})
