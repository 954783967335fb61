package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"flyai/internal/llm"
	"flyai/pkg/logging/logging"
)

// writeJSON is a small helper to send JSON responses consistently.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeModelError maps Answer/Classify failures to a response.
func writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.L(r.Context())

	if errors.Is(err, llm.ErrUpstream) {
		logger.Warn("language model unavailable", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  "upstream_error",
			"detail": err.Error(),
		})
		return
	}

	logger.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_server_error")
}
