package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/pkg/logger"
)

// BaseHandler provides the response helpers shared by all HTTP handlers.
// Every payload carries a success flag so the front end can branch without
// inspecting status codes.
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response.
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a failure response with the given message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// HandleServiceError maps a service error onto the HTTP surface. AppErrors
// carry their own status; anything else is an unanticipated server fault and
// surfaces as a generic 500 with detail kept in the logs only.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := errors.IsAppError(err); ok {
		body := map[string]interface{}{
			"success": false,
			"error":   appErr.GetDetailedMessage(),
			"code":    appErr.Code,
		}
		if appErr.Reference != "" {
			body["reference"] = appErr.Reference
		}
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("internal error", "error", appErr.Error(), "code", appErr.Code)
			body["error"] = "internal server error"
		}
		h.WriteJSON(w, appErr.StatusCode, body)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   "internal server error",
	})
}

// ExtractTokenFromHeader extracts a Bearer token from the Authorization header.
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
