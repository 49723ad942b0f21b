package middleware

import (
	"net/http"
	"strings"

	"club-hours/internal/logger"

	"github.com/gin-gonic/gin"
)

// MemberIDKey is where JWTAuth stores the authenticated member id.
const MemberIDKey = "member_id"

// SessionVerifier turns a bearer token into a member id.
type SessionVerifier interface {
	VerifySession(token string) (string, error)
}

func JWTAuth(tokens SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		memberID, err := tokens.VerifySession(strings.TrimSpace(auth[7:]))
		if err != nil {
			logger.Debug("auth.token_rejected", "path", c.FullPath(), "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}
		c.Set(MemberIDKey, memberID)
		c.Next()
	}
}

// MemberID is the id JWTAuth put on the context, or "".
func MemberID(c *gin.Context) string {
	return c.GetString(MemberIDKey)
}
