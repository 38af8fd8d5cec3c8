package servicerequest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/raccordement/raccordement-service/internal/transport"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

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

// CreateServiceRequest handles POST /api/create-service-request
func (h *Handler) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	var dto CreateServiceRequestDTO
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dto); err != nil {
		h.Logger.Error("failed to decode service request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.service.Create(&dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"reference": req.Reference,
		"request":   req,
	})
}

// GetServiceRequest handles GET /api/service-requests/{reference}
func (h *Handler) GetServiceRequest(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		h.WriteError(w, http.StatusBadRequest, "reference is required")
		return
	}

	req, err := h.service.GetByReference(reference)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"request": req,
	})
}

// UpdateServiceRequest handles PATCH /api/service-requests/{reference}
func (h *Handler) UpdateServiceRequest(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		h.WriteError(w, http.StatusBadRequest, "reference is required")
		return
	}

	var dto UpdateServiceRequestDTO
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dto); err != nil {
		h.Logger.Error("failed to decode service request update", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.service.Update(reference, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"request": req,
	})
}

// ListServiceRequests handles GET /api/admin/service-requests
func (h *Handler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := parseIntQuery(r, "offset", 0)

	requests, err := h.service.List(limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"requests": requests,
		"count":    len(requests),
	})
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
