package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"galapass/guesthub/internal/repository"
	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/response"
)

// respondError maps domain errors to HTTP responses. Anything unrecognized is
// reported as a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrGuestNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrTemplateNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, repository.ErrDuplicateGuest),
		errors.Is(err, repository.ErrDuplicateCategory):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrProtectedCategory),
		errors.Is(err, service.ErrConfirmTokenInvalid):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrRefreshTokenInvalid):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrSessionClosed),
		errors.Is(err, service.ErrSessionFailed):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, "internal server error")
	}
}
