package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aladdinbruv/docproche-sub000/models"
	"github.com/aladdinbruv/docproche-sub000/services"
)

// Context keys set by AuthMiddleware.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
	KeyEmail  = "email"
)

// TokenParser validates an access token.
type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				abort(c, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}
			tokenString = parts[1]
		} else {
			// Fallback to the HttpOnly cookie set by the OTP login
			cookieToken, err := c.Cookie("token")
			if err != nil || cookieToken == "" {
				abort(c, http.StatusUnauthorized, "Authorization required")
				return
			}
			tokenString = cookieToken
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, models.Role(claims.Role))
		c.Set(KeyEmail, claims.Email)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(KeyRole)
		if !exists {
			abort(c, http.StatusForbidden, "User role not found")
			return
		}

		userRole, ok := role.(models.Role)
		if !ok {
			abort(c, http.StatusForbidden, "Invalid user role type")
			return
		}

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.Response{
		Success: false,
		Error:   msg,
	})
}
