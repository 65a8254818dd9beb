package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

// envelope is the body of every API response.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := envelope{StatusCode: status, Data: data, Message: message, Success: status < http.StatusBadRequest}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// respondError maps err onto its status and renders the public message only. The
// cause is logged, at ERROR for server faults and WARN for client errors.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	message := apperrors.PublicMessage(err)

	logger := logging.FromContext(ctx)
	attrs := []any{slog.Int("status", status), slog.String("kind", string(apperrors.KindOf(err))), slog.Any("error", err)}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request returned client error", attrs...)
	}

	respondJSON(ctx, w, status, nil, message)
}
