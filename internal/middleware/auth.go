package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"pipeline-board/internal/models"
)

const (
	UserIDKey  = "user_id"
	SessionKey = "session"
)

// AuthMiddleware verifies a Supabase HS256 access token and stores the
// caller's models.Session in the gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, "missing authorization header", "")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, "invalid authorization header format", "")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abort(c, "empty token", "")
			return
		}

		// Some clients URL-encode the token.
		if decoded, err := url.QueryUnescape(tokenString); err == nil {
			tokenString = decoded
		}

		if len(strings.Split(tokenString, ".")) != 3 {
			abort(c, "invalid token format", "JWT token must have 3 parts separated by dots")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			if jwtSecret == "" {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			var msg string
			switch {
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				msg = "token signature is invalid - check JWT secret"
			case errors.Is(err, jwt.ErrTokenExpired):
				msg = "token has expired"
			case errors.Is(err, jwt.ErrTokenMalformed):
				msg = "token is malformed - ensure you're using a valid Supabase JWT token"
			default:
				msg = err.Error()
			}
			abort(c, "invalid token", msg)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			abort(c, "invalid token claims", "")
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			abort(c, "missing user id in token", "")
			return
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			abort(c, "invalid user id in token", err.Error())
			return
		}

		session := models.Session{UserID: userID, Role: roleFromClaims(claims)}
		c.Set(UserIDKey, sub)
		c.Set(SessionKey, session)
		c.Next()
	}
}

// roleFromClaims reads app_metadata.role, then a top-level user_role claim.
// Users without either are treated as sales staff.
func roleFromClaims(claims jwt.MapClaims) models.Role {
	if meta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if role, ok := meta["role"].(string); ok && role != "" {
			return models.ParseRole(role)
		}
	}
	if role, ok := claims["user_role"].(string); ok {
		return models.ParseRole(role)
	}
	return models.RoleSales
}

func abort(c *gin.Context, errMsg, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   errMsg,
		Message: detail,
	})
}

// SessionFrom returns the session set by AuthMiddleware.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
