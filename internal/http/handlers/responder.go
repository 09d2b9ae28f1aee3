package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/courtside/franchise-sim/internal/http/middleware"
	"github.com/courtside/franchise-sim/internal/logging"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(loggerFromRequest(r), "response encoding failed", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	body := errorBody{
		Error:     message,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		logging.Error(loggerFromRequest(r), "request failed", nil,
			slog.Int(logging.FieldStatusCode, status),
			slog.String("message", message),
		)
	}
	writeJSON(w, r, status, body)
}

func loggerFromRequest(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context(), nil)
}
