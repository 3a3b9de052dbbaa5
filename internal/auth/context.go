package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID, or "" on an
// unauthenticated request.
func GetUserID(c *gin.Context) string {
	return contextString(c, ctxUserIDKey)
}

// GetUserEmail returns the authenticated user's email, or "".
func GetUserEmail(c *gin.Context) string {
	return contextString(c, ctxUserEmailKey)
}

func contextString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
