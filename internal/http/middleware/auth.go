package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/auth"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
)

// AuthMiddleware rejects requests without a valid bearer token and stashes
// the caller's identity in the gin context.
func AuthMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := verifier.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// MustUser returns the identity set by AuthMiddleware. It panics off an
// unauthenticated context, so only use it behind the middleware.
func MustUser(c *gin.Context) chat.UserRef {
	id, _ := c.Get("userID")
	name, _ := c.Get("username")
	return chat.UserRef{ID: id.(uint), Username: name.(string)}
}
