package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Maintenance responde 503 a todas las peticiones mientras enabled sea true.
func Maintenance(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":       "the store is under maintenance, please check back soon",
				"maintenance": true,
			})
			return
		}
		c.Next()
	}
}
