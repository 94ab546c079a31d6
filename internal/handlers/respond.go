// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gmods/storefront-be/internal/core/ports"
)

// envelope is the uniform response shape for every API endpoint
type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type pagination struct {
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondData(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	respondJSON(w, logger, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, envelope{Success: false, Error: message})
}

func respondList[T any](w http.ResponseWriter, logger *slog.Logger, result ports.ListResult[T]) {
	respondJSON(w, logger, http.StatusOK, envelope{
		Success: true,
		Data:    result.Data,
		Pagination: &pagination{
			Total:      result.Total,
			TotalPages: result.TotalPages,
			Page:       result.Page,
			PerPage:    result.PerPage,
		},
	})
}

// upstreamStatus extracts the HTTP status carried by a catalog error, or 0
// when the error carries none.
func upstreamStatus(err error) int {
	var se interface{ HTTPStatus() int }
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return 0
}
