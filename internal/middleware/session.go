// Package middleware contiene los middlewares de gin de la API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie es la cookie que identifica al visitante y a su carrito.
	SessionCookie = "crafts_session"

	sessionKey    = "session_id"
	sessionMaxAge = 365 * 24 * 60 * 60
)

// Session asegura que cada petición tenga un id de visitante. Si la cookie
// falta o no es un UUID válido se emite una nueva.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", secure, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID devuelve el id de visitante fijado por Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
