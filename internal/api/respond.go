package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/pkg/client"
	"github.com/rs/zerolog"
)

// errorResponse mirrors the backend envelope so the UI handles both alike
type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError passes backend errors through with their status; anything else
// means the backend could not be reached or answered garbage.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Detail: apiErr.Message, Code: apiErr.Code})
		return
	}

	logger.Error().Err(err).Msg("backend request failed")
	writeDetail(w, http.StatusBadGateway, "backend unavailable")
}
