package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// LoginPath es a donde debe redirigir el panel cuando no hay sesión.
	LoginPath = "/login"

	adminRole = "admin"
	adminKey  = "admin_subject"
)

// AdminClaims son los claims del token del panel.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAdminToken firma un token HS256 de administrador válido durante ttl.
func IssueAdminToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "redirect": LoginPath})
}

// RequireAdmin exige un Bearer token de administrador firmado con secret.
// Sin secret configurado el panel queda cerrado.
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			unauthorized(c, "authorization header is missing")
			return
		}
		if len(secret) == 0 {
			unauthorized(c, "admin access is not configured")
			return
		}

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			unauthorized(c, "invalid or expired token")
			return
		}
		if claims.Role != adminRole {
			unauthorized(c, "admin role required")
			return
		}

		c.Set(adminKey, claims.Subject)
		c.Next()
	}
}

// AdminSubject devuelve el sujeto del token validado por RequireAdmin.
func AdminSubject(c *gin.Context) string {
	return c.GetString(adminKey)
}
