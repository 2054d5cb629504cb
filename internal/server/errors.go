package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seichijunrei/seichijunrei/internal/gateway"
	"github.com/seichijunrei/seichijunrei/internal/server/middleware"
	"github.com/seichijunrei/seichijunrei/internal/session"
)

// errorResponse is the JSON envelope for every failure.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Resource  string `json:"resource,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError maps a failure onto an HTTP status and writes the envelope.
// Gateway kinds map NotFound to 404, InvalidRequest to 400,
// InvalidResponse to 502, and Unavailable to 503; session failures map
// onto 404/410/429.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := errorDetail{
		Code:      "internal_error",
		Message:   "internal server error",
		RequestID: middleware.GetRequestID(r.Context()),
	}

	if gerr, ok := gateway.AsError(err); ok {
		detail.Code = string(gerr.Kind)
		detail.Message = gerr.Message
		detail.Resource = gerr.Resource
		switch gerr.Kind {
		case gateway.KindNotFound:
			status = http.StatusNotFound
		case gateway.KindInvalidRequest:
			status = http.StatusBadRequest
		case gateway.KindInvalidResponse:
			status = http.StatusBadGateway
		case gateway.KindUnavailable:
			status = http.StatusServiceUnavailable
		}
	} else {
		switch {
		case errors.Is(err, session.ErrNotFound):
			status = http.StatusNotFound
			detail.Code = "session_not_found"
			detail.Message = err.Error()
		case errors.Is(err, session.ErrExpired):
			status = http.StatusGone
			detail.Code = "session_expired"
			detail.Message = err.Error()
		case errors.Is(err, session.ErrLimitExceeded):
			status = http.StatusTooManyRequests
			detail.Code = "session_limit_exceeded"
			detail.Message = err.Error()
		}
	}

	writeJSON(w, status, errorResponse{Error: detail})
}

// writeBadRequest reports an invalid caller parameter.
func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{
		Code:      "invalid_request",
		Message:   message,
		RequestID: middleware.GetRequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
