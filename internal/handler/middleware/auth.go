package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"stayops/internal/domain/actor"
	"stayops/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxActorIDKey   = "actor_id"
	ctxActorRoleKey = "actor_role"
)

var roleHierarchy = map[actor.Role]int{
	actor.RoleGuest:      1,
	actor.RoleAgent:      2,
	actor.RoleSupervisor: 3,
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		actorID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorIDKey, actorID)
		c.Set(ctxActorRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"actor_id": actorID.String(),
			"role":     string(role),
		})
		c.Next()
	}
}

// RequireRoleAtLeast must be used after RequireAuth().
func (m *AuthMiddleware) RequireRoleAtLeast(minRole actor.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetActorRole(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !hasMinimumRole(role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	// Browsers cannot set headers on WebSocket upgrades, so the stream
	// endpoint passes the token as a query parameter.
	return c.Query("token")
}

func hasMinimumRole(actorRole, minRole actor.Role) bool {
	actorLevel, actorExists := roleHierarchy[actorRole]
	minLevel, minExists := roleHierarchy[minRole]
	return actorExists && minExists && actorLevel >= minLevel
}

func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	actorID, exists := c.Get(ctxActorIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := actorID.(uuid.UUID)
	return id, ok
}

func GetActorRole(c *gin.Context) (actor.Role, bool) {
	actorRole, exists := c.Get(ctxActorRoleKey)
	if !exists {
		return "", false
	}

	role, ok := actorRole.(actor.Role)
	return role, ok
}
