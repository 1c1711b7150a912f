package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"csv-processor/internal/logging"
)

// messageResponse is the body of error and informational responses
type messageResponse struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func (h *DashboardHandler) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError(h.logger, "failed to encode response", err, slog.String("component", "http_server"))
	}
}

func (h *DashboardHandler) sendMessage(w http.ResponseWriter, status int, text string) {
	h.sendJSON(w, status, messageResponse{Code: status, Text: text})
}

// sendBody writes a non-JSON payload; a failed write is logged with the
// request logger
func (h *DashboardHandler) sendBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to write response", err,
			slog.String("component", "http_server"))
	}
}

func (h *DashboardHandler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("component", "http_server"))
	h.sendMessage(w, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse sends a 400 with field-specific validation errors
func (h *DashboardHandler) validationErrorResponse(w http.ResponseWriter, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}
	h.sendJSON(w, http.StatusBadRequest, response)
}
