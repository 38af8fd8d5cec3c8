package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Transport Middleware Suite")
}

var _ = ginkgo.Describe("TraceID", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	ginkgo.It("should echo the trace id the caller sent", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(TraceHeader, "trace-from-client")
		rec := httptest.NewRecorder()

		TraceID(noop).ServeHTTP(rec, req)

		gomega.Expect(rec.Header().Get(TraceHeader)).To(gomega.Equal("trace-from-client"))
	})

	ginkgo.It("should mint a trace id when none was sent", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()

		TraceID(noop).ServeHTTP(rec, req)

		gomega.Expect(rec.Header().Get(TraceHeader)).ToNot(gomega.BeEmpty())
	})
})

var _ = ginkgo.Describe("CORS", func() {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	ginkgo.It("should allow the trace header on preflight", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/create-payment-intent", nil)
		req.Header.Set("Origin", "https://www.example.fr")
		rec := httptest.NewRecorder()

		CORS("*")(noop).ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(rec.Header().Get("Access-Control-Allow-Headers")).To(gomega.ContainSubstring(TraceHeader))
	})

	ginkgo.It("should only reflect configured origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()

		CORS("https://www.example.fr")(noop).ServeHTTP(rec, req)

		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.BeEmpty())
	})
})
