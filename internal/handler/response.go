package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"pricedesk/internal/backend"
	"pricedesk/internal/console"
	"pricedesk/internal/domain/pricing"
)

// response is the uniform JSON envelope for every admin API reply.
type response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// ok writes a 200 envelope wrapping data.
func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

// okMessage writes a 200 envelope with a message and optional data.
func okMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Message: message, Data: data})
}

// fail maps an error to its HTTP status and envelope. Validation failures
// carry per-field messages; backend errors keep the upstream status when it
// is known, otherwise they surface as a bad gateway.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *console.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, response{
			Message: "validation failed",
			Fields:  verr.Fields,
		})
		return
	}

	if errors.Is(err, pricing.ErrEntryNotFound) {
		writeJSON(w, http.StatusNotFound, response{Message: err.Error()})
		return
	}

	var apiErr *backend.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, response{Message: apiErr.Message})
		return
	}

	zctx.From(r.Context()).Error("Unhandled handler error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, response{Message: "internal error"})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &backend.Error{Message: "invalid request body", Status: http.StatusBadRequest}
	}
	return nil
}
