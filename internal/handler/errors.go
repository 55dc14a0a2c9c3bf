package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
)

// respondError maps a service error onto the response envelope.
// Unrecognised errors are logged and reported as INTERNAL_ERROR.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	case errors.Is(err, service.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAccessDenied):
		response.Fail(c, http.StatusForbidden, response.ErrAccessDenied)
	case errors.Is(err, service.ErrSelfActionForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrSelfActionForbidden)
	case errors.Is(err, service.ErrValidation):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrDuplicateAttendance):
		response.Fail(c, http.StatusInternalServerError, response.ErrDuplicateAttendance)
	default:
		logInternal(c, log, err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func logInternal(c *gin.Context, log zerolog.Logger, err error) {
	log.Error().Err(err).
		Str("request_id", response.RequestID(c)).
		Str("route", c.FullPath()).
		Msg("Request failed")
}
