package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
)

// ParamUserID is the route parameter naming the target account.
const ParamUserID = "user_id"

// Guard wraps next so it only runs when the caller is admitted by one of
// allowed for the account named in the :user_id route parameter.
func Guard(next gin.HandlerFunc, allowed ...service.Access) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.Authorize(GetClaims(c), c.Param(ParamUserID), allowed...); err != nil {
			abortGate(c, err)
			return
		}
		next(c)
	}
}

// ForbidSelf wraps next so callers cannot target their own account.
func ForbidSelf(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.ForbidSelfDelete(GetClaims(c), c.Param(ParamUserID)); err != nil {
			abortGate(c, err)
			return
		}
		next(c)
	}
}

func abortGate(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	case errors.Is(err, service.ErrSelfActionForbidden):
		response.AbortFail(c, http.StatusForbidden, response.ErrSelfActionForbidden)
	default:
		response.AbortFail(c, http.StatusForbidden, response.ErrAccessDenied)
	}
}
