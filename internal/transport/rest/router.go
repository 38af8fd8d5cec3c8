package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/raccordement/raccordement-service/internal/auth"
	"github.com/raccordement/raccordement-service/internal/payment"
	"github.com/raccordement/raccordement-service/internal/servicerequest"
	"github.com/raccordement/raccordement-service/internal/transport/middleware"
	"github.com/raccordement/raccordement-service/internal/transport/swagger"
)

// RegisterAllRoutes wires every HTTP route of the service onto the router.
// The public payment flow lives directly under /api; back-office routes sit
// under /api/admin behind the auth middleware.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins string, authHandler *auth.Handler, requestHandler *servicerequest.Handler, paymentHandler *payment.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/create-service-request", requestHandler.CreateServiceRequest)
		r.Get("/service-requests/{reference}", requestHandler.GetServiceRequest)

		r.Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
		r.Get("/payment-status/{reference}", paymentHandler.GetPaymentStatus)
		r.Post("/complete-payment", paymentHandler.CompletePayment)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		r.Route("/admin", func(ar chi.Router) {
			ar.Use(authHandler.AuthMiddleware)

			ar.Get("/service-requests", requestHandler.ListServiceRequests)
			ar.Patch("/service-requests/{reference}", requestHandler.UpdateServiceRequest)
			ar.Post("/sync-payments", paymentHandler.SyncPayments)
		})
	})
}
