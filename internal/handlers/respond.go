package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/bankstmt/bank_statement_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithError translates a service error into the structured API error
// body. Sentinel errors map to their HTTP status; anything unrecognised,
// including infrastructure AppErrors, becomes a 500 with the detail kept out of
// the response body.
func respondWithError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var status int
	var label string
	detail := err.Error()
	messages := map[string]string{}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		label = "Not Found"
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		label = "Business Validation Error"
	case errors.Is(err, apperrors.ErrInvalidOperation):
		status = http.StatusBadRequest
		label = "Invalid Operation"
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
		label = "Conflict"
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		label = "Internal Server Error"
		detail = "an internal error occurred"
		// The detail stays out of the body; the request id lets callers quote
		// the failing request against the server logs.
		if requestID := middleware.GetRequestIDFromCtx(c.Request.Context()); requestID != "" {
			messages["requestId"] = requestID
		}
	}

	if status != http.StatusInternalServerError {
		logger.Warn("Request failed", slog.Int("status", status), slog.String("error", err.Error()))
	}
	messages["error"] = detail
	c.JSON(status, dto.NewAPIErrorResponse(status, label, messages))
}

// respondBindingError reports a malformed request body or query string.
func respondBindingError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.NewAPIErrorResponse(
		http.StatusBadRequest,
		"Malformed Request",
		map[string]string{"request": err.Error()},
	))
}
