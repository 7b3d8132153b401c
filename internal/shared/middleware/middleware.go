package middleware

import (
	"net/http"
	"strings"

	"tourbook/internal/shared/config"
	"tourbook/internal/shared/utils/response"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Principal is the authenticated caller
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   users.Role
}

// Actor returns the caller as a service-layer actor
func (p *Principal) Actor() users.Actor {
	return users.Actor{ID: p.UserID, Role: p.Role}
}

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		principal, err := parseAccessToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

func parseAccessToken(tokenString, secret string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	rawRole, _ := claims["role"].(string)
	role, err := users.ParseRole(rawRole)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	email, _ := claims["email"].(string)

	return &Principal{UserID: userID, Email: email, Role: role}, nil
}

// SetPrincipal stores the caller on the request context
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.UserID.String())
	c.Set("user_email", p.Email)
	c.Set("user_role", p.Role)
}

// GetPrincipal returns the caller set by JWTAuthWithConfig
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// MustPrincipal writes a 401 and returns false when no caller is present
func MustPrincipal(c *gin.Context) (*Principal, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return nil, false
	}
	return p, true
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := GetPrincipal(c)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

// RequireAdmin middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(users.RoleAdmin)
}
