package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/bilateral/pkg/errors"
)

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Line      int    `json:"line,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status and public code.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "CANCELED"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, string(errs.ErrCodeTimeout)
	}

	code := errs.GetCode(err)
	switch {
	case errs.IsInvalid(err):
		return http.StatusBadRequest, string(code)
	case code == errs.ErrCodeNotFound:
		return http.StatusNotFound, string(code)
	case code == errs.ErrCodeResourceLimit:
		return http.StatusUnprocessableEntity, string(code)
	case code == errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout, string(code)
	case code == errs.ErrCodeUnsupported:
		return http.StatusBadRequest, string(code)
	case code == "":
		return http.StatusInternalServerError, string(errs.ErrCodeInternal)
	default:
		return http.StatusInternalServerError, string(code)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", requestIDFrom(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		Line:      errs.Line(err),
		RequestID: requestIDFrom(r.Context()),
	})
}
