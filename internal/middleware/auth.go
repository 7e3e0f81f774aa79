package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

// AuthMiddleware accepts either the shared API token or a signed JWT in
// the Authorization header. JWT requests carry the caller identity in the
// email claim; token requests may supply X-User-Email.
type AuthMiddleware struct {
	log       *logger.Logger
	apiToken  string
	jwtSecret []byte
}

func NewAuthMiddleware(log *logger.Logger, apiToken, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		log:       log.With("middleware", "AuthMiddleware"),
		apiToken:  apiToken,
		jwtSecret: []byte(jwtSecret),
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or invalid token",
				"error":   "unauthorized",
			})
			return
		}

		if am.apiToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(am.apiToken)) == 1 {
			if email := c.GetHeader("X-User-Email"); email != "" {
				c.Set("user_email", email)
			}
			c.Next()
			return
		}

		email, err := am.validateJWT(token)
		if err != nil {
			am.log.Debug("Token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or invalid token",
				"error":   "unauthorized",
			})
			return
		}
		if email != "" {
			c.Set("user_email", email)
		}
		c.Next()
	}
}

func (am *AuthMiddleware) validateJWT(tokenString string) (string, error) {
	if len(am.jwtSecret) == 0 {
		return "", fmt.Errorf("no token validator configured")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return am.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if email, ok := claims["email"].(string); ok {
		return email, nil
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub, nil
	}
	return "", nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
