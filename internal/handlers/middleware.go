package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userEmailKey = "userEmail"

// emailMiddleware validates the bearer token and stores the account email it
// was issued for. Every service call below passes this email explicitly;
// there is no ambient session lookup on the request path.
func (h *Handler) emailMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	email, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(userEmailKey, email)
	c.Next()
}

// userEmail returns the authenticated email set by emailMiddleware.
func userEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
