package mockbackend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// jwtAuth rejects requests without a valid bearer token and stores the
// parsed claims on the context.
func (s *Server) jwtAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(header, common.BearerPrefix)
		if tokenString == header {
			abortWithError(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		claims, err := ParseToken(tokenString, s.secret, s.clock.Now)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token expired")
				return
			}
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// adminOnly must run after jwtAuth.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := claimsFrom(c); claims != nil && claims.Role == common.RoleAdmin {
			c.Next()
			return
		}
		abortWithError(c, http.StatusForbidden, "Admin access required")
	}
}

func claimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
