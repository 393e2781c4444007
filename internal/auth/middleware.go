package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/internal/apperror"
)

const claimsKey = "auth.claims"

// RequireAdmin guards mutating routes. A missing or invalid bearer token is
// an apperror.Unauthorized, a token without the admin role an
// apperror.Forbidden; either is handed to deny, which must write the
// response and abort. A nil TokenService lets every request through.
func RequireAdmin(tokens *TokenService, deny func(c *gin.Context, err error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			deny(c, apperror.Unauthorized("Authentication required"))
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			deny(c, apperror.Unauthorized("Invalid or expired token"))
			return
		}

		if claims.Role != RoleAdmin {
			deny(c, apperror.Forbidden("Admin role required"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims RequireAdmin stored, if any.
func ClaimsFromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
