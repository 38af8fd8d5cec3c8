package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/raccordement/raccordement-service/internal/transport"
)

// syncTimeout bounds a full reconciliation run, not a single gateway call.
const syncTimeout = 2 * time.Minute

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
	}
}

// CreatePaymentIntent handles POST /api/create-payment-intent
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var dto CreatePaymentIntentDTO
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dto); err != nil {
		h.Logger.Error("failed to decode payment intent request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.CreatePaymentIntent(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"status":          result.Status,
		"reference":       result.Reference,
		"clientSecret":    result.ClientSecret,
		"paymentIntentId": result.PaymentIntentID,
		"requiresAction":  result.RequiresAction,
	})
}

// GetPaymentStatus handles GET /api/payment-status/{reference}
func (h *Handler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		h.WriteError(w, http.StatusBadRequest, "reference is required")
		return
	}

	rec, err := h.service.GetPaymentStatus(reference)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"payment": map[string]any{
			"reference":       rec.Reference,
			"status":          rec.Status,
			"paymentIntentId": rec.PaymentIntentID,
			"amount":          rec.Amount,
			"currency":        rec.Currency,
			"lastUpdated":     rec.LastUpdated,
		},
	})
}

// CompletePayment handles POST /api/complete-payment
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	var dto CompletePaymentDTO
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dto); err != nil {
		h.Logger.Error("failed to decode complete payment request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.CompletePayment(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    result.Status,
		"reference": result.Reference,
	})
}

// SyncPayments handles POST /api/admin/sync-payments
func (h *Handler) SyncPayments(w http.ResponseWriter, r *http.Request) {
	// running with a detached timeout: sync should finish even if the
	// admin client disconnects mid-page
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), syncTimeout)
	defer cancel()

	results, err := h.service.SyncPayments(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated, recovered, skipped := 0, 0, 0
	for _, res := range results {
		switch res.Action {
		case SyncActionUpdated:
			updated++
		case SyncActionRecovered:
			recovered++
		case SyncActionSkipped:
			skipped++
		}
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"updated":   updated,
		"recovered": recovered,
		"skipped":   skipped,
		"results":   results,
	})
}
