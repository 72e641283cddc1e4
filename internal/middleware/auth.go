package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/garage-manager/internal/config"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"

	SessionCookie = "session"
)

// IssueToken signs a session token for user.
func IssueToken(cfg *config.Config, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(cfg.JWTTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

var errInvalidPayload = errors.New("invalid token payload")

// ParseToken validates a session token and returns its subject and role.
func ParseToken(cfg *config.Config, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errInvalidPayload
	}

	userID, ok := claims["sub"].(float64)
	role, _ := claims["role"].(string)
	if !ok || userID <= 0 {
		return 0, "", errInvalidPayload
	}

	return uint(userID), role, nil
}

// tokenFrom prefers the Authorization header and falls back to the
// session cookie set at login.
func tokenFrom(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
				Code:    "unauthorized",
				Message: "Sessão ausente.",
			})
			return
		}

		userID, role, err := ParseToken(cfg, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
				Code:    "invalid_token",
				Message: "Sessão inválida ou expirada.",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
			Code:    "forbidden",
			Message: "Acesso negado.",
		})
	}
}
