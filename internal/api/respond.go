package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	reporterrors "github.com/FPI-TW/report-sub000/errors"
)

// APIError represents a structured error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the top-level error envelope.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code reporterrors.ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: APIError{Code: string(code), Message: message},
	})
}

// statusOf maps a listing error to an HTTP status.
// Store-side failures are upstream failures, whatever the store reported.
func statusOf(code reporterrors.ErrorCode) int {
	switch code {
	case reporterrors.CodeInvalidInput:
		return http.StatusBadRequest
	case reporterrors.CodeCancelled:
		return http.StatusServiceUnavailable
	case reporterrors.CodeListFailed, reporterrors.CodeForbidden, reporterrors.CodeNotFound:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseInt extracts a positive integer query parameter.
// Missing or non-numeric values use the default. Other values are clamped to
// at least 1 and, when maxValue is positive, to at most maxValue.
func parseInt(r *http.Request, name string, defaultValue, maxValue int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return defaultValue
	}
	n = max(n, 1)
	if maxValue > 0 {
		n = min(n, maxValue)
	}
	return n
}
