package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sepakit/internal/middleware"
	apperrors "sepakit/pkg/errors"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Recorder receives business metrics. A nil Recorder is allowed.
type Recorder interface {
	IncDocument(msgType string)
	IncValidation(kind string, valid bool)
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func respondValidationErrors(w http.ResponseWriter, errors map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":             "Validation failed",
		"validation_errors": errors,
	})
}

// respondDomainError maps error kinds to statuses: checksum failures are 422,
// other classified failures 400, anything else 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, log Logger, operation string, err error) {
	status := statusFor(err)
	fields := map[string]interface{}{
		"request_id": middleware.RequestID(r.Context()),
		"operation":  operation,
		"error":      err.Error(),
	}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", fields)
		respondError(w, status, "Internal server error")
		return
	}
	log.Warn("Request rejected", fields)
	respondJSON(w, status, errorResponse{
		Error: err.Error(),
		Kind:  string(apperrors.KindOf(err)),
		Field: apperrors.FieldOf(err),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidChecksum):
		return http.StatusUnprocessableEntity
	case apperrors.KindOf(err) != "":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HealthCheck reports liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "sepa-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
