package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"coqueta/internal/domain"

	"go.uber.org/zap"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// RespondWithError sends a structured error response
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithErrorDetails(w, statusCode, message, nil)
}

// RespondWithErrorDetails sends a structured error response with additional details
func RespondWithErrorDetails(w http.ResponseWriter, statusCode int, message string, details map[string]interface{}) {
	RespondWithJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:      http.StatusText(statusCode),
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// RespondWithValidationErrors sends validation error response
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	details := make(map[string]interface{})
	details["validation_errors"] = errors

	RespondWithErrorDetails(w, http.StatusBadRequest, "validation failed", details)
}

// StatusFor maps a domain error onto the HTTP status it is reported with
func StatusFor(err error) int {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithDomainError writes err using the status of its domain type.
// Server-side failures are logged here and nowhere else.
func RespondWithDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)

	var partial *domain.PartialSaleError
	if errors.As(err, &partial) {
		logger.Error("Sale recorded with pending stock updates",
			zap.String("sale_id", partial.SaleID),
			zap.Strings("applied", partial.Applied),
			zap.Strings("pending", partial.Pending),
			zap.Error(partial.Err),
		)
		RespondWithErrorDetails(w, status, "sale recorded but stock was not fully updated", map[string]interface{}{
			"sale_id": partial.SaleID,
			"applied": partial.Applied,
			"pending": partial.Pending,
		})
		return
	}

	var upload *domain.UploadError
	if errors.As(err, &upload) {
		logger.Error("Media upload failed", zap.Error(err))
		message := upload.Message
		if message == "" {
			message = "upload failed"
		}
		RespondWithError(w, status, message)
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		RespondWithError(w, status, "internal server error")
		return
	}

	RespondWithError(w, status, err.Error())
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
