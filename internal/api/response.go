package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
)

const internalErrorMessage = "Internal server error"

// statusFor maps an error to its HTTP status and the message safe to return.
// Anything unrecognized is a 500 with a generic message.
func statusFor(err error) (int, string) {
	var appErr *apperror.AppError
	message := internalErrorMessage
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrInvalidKey):
		return http.StatusBadRequest, message
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, message
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, message
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, message
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, message
	case errors.Is(err, apperror.ErrDelivery):
		return http.StatusBadGateway, message
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// respondError writes {"message": ...}. Server-side failures are logged with
// the underlying error, which never reaches the client.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.JSON(status, gin.H{"message": message})
}

// abortWithError responds like respondError and stops the handler chain.
// Middleware such as the admin guard use it.
func abortWithError(log zerolog.Logger) func(c *gin.Context, err error) {
	return func(c *gin.Context, err error) {
		respondError(c, log, err)
		c.Abort()
	}
}
