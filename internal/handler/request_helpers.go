package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/safequest/engine/internal/logger"
)

const (
	// ErrMsgInvalidRequest is the generic bad-body message.
	ErrMsgInvalidRequest = "Invalid request body"
	// ErrMsgInvalidRequestSummary heads validation error responses.
	ErrMsgInvalidRequestSummary = "Invalid request"
	// ErrMsgMissingQueryParam formats the missing-parameter message.
	ErrMsgMissingQueryParam = "Missing %s query parameter"
)

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest decodes a JSON request body, validates it
// against the struct's tags, and writes the error response itself on
// failure. Handlers should return without writing when it errors.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req any, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// GetQueryParam retrieves a required query parameter. On a missing or
// empty value it writes the error response and returns ok=false.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	log := logger.FromContext(r.Context())
	value := r.URL.Query().Get(paramName)
	if value == "" {
		log.Warn(fmt.Sprintf("Missing %s query parameter", paramName))
		http.Error(w, fmt.Sprintf(ErrMsgMissingQueryParam, paramName), http.StatusBadRequest)
		return "", false
	}
	return value, true
}
