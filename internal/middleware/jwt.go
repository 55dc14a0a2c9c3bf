package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// RequireAuth validates the bearer token in the Authorization header and
// rejects logged-out tokens. Any role passes; endpoints narrow access with Guard.
func RequireAuth(authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authService.Tokens().Validate(c.GetHeader("Authorization"))
		if err != nil {
			abortAuth(c, err)
			return
		}
		if !checkRevocation(c, authService, claims, log) {
			return
		}
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireWSAuth validates a token from the query param ?token=...
// Browsers cannot set headers on WebSocket upgrade requests.
func RequireWSAuth(authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authService.Tokens().ParseToken(c.Query("token"))
		if err != nil {
			abortAuth(c, err)
			return
		}
		if !checkRevocation(c, authService, claims, log) {
			return
		}
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func abortAuth(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnauthenticated) {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
}

func checkRevocation(c *gin.Context, authService *service.AuthService, claims *service.Claims, log zerolog.Logger) bool {
	revoked, err := authService.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Msg("Revocation lookup failed")
		response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
		return false
	}
	if revoked {
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
		return false
	}
	return true
}
