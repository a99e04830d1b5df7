package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError reports a service error with the status apperrors assigns to it.
// Server faults are logged and answered with fallback so internals do not leak.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)
	status := apperrors.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		msg := fallback
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  "Invalid request",
		Fields: dto.ValidationErrorMessages(err),
	})
}

// callerID returns the authenticated user, answering 401 when it is missing.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// pathID returns the :id path parameter. Ids that are not UUIDs cannot name a
// stored record, so they are answered with 404 like any other unknown id.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Malformed id in path", slog.String("id", id))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return "", false
	}
	return id, true
}
