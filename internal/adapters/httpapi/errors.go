package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/lettersmith/newsletter-api/internal/app/newsletters"
	"github.com/lettersmith/newsletter-api/internal/app/subscriptions"
)

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	er.Error.RequestID = middleware.GetReqID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeAppError maps workflow errors to responses. Application errors carry
// their own status and code; anything else is an unexpected failure and must
// not leak internal detail to the caller.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var se *subscriptions.Error
	if errors.As(err, &se) {
		writeError(w, r, se.Status, se.Code, se.Message)
		return
	}
	var ne *newsletters.Error
	if errors.As(err, &ne) {
		writeError(w, r, ne.Status, ne.Code, ne.Message)
		return
	}
	s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}
