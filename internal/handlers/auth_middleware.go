package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusops/records-service/internal/models"
	"github.com/campusops/records-service/internal/policy"
	"github.com/campusops/records-service/internal/services"
)

// JWTAuthMiddleware authenticates requests with a bearer access token and
// places the acting identity in the request context.
type JWTAuthMiddleware struct {
	secret []byte
}

func NewJWTAuthMiddleware(secret string) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{secret: []byte(secret)}
}

// AuthMiddleware verifies the Authorization header and sets user_id and
// user_role for downstream handlers.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing authorization header",
			})
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid authorization header",
			})
			return
		}

		claims, err := services.ParseAccessToken(tokenString, m.secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireRoleMiddleware rejects authenticated requests whose role is not in
// the allowed set. Finer-grained checks stay in the services; this guard only
// trims obviously unauthorized traffic at the boundary.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		userRole, ok := role.(models.UserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		for _, allowed := range roles {
			if userRole == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Forbidden",
		})
	}
}

// actorFromContext rebuilds the policy actor from the values the auth
// middleware stored. The bool is false when the request is unauthenticated.
func actorFromContext(c *gin.Context) (policy.Actor, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return policy.Actor{}, false
	}
	role, exists := c.Get("user_role")
	if !exists {
		return policy.Actor{}, false
	}

	id, ok := userID.(uint)
	if !ok {
		return policy.Actor{}, false
	}
	userRole, ok := role.(models.UserRole)
	if !ok {
		return policy.Actor{}, false
	}

	return policy.Actor{UserID: id, Role: userRole}, true
}

// requireActor writes a 401 and returns false when the request carries no
// authenticated identity.
func (h *BaseHandler) requireActor(c *gin.Context) (policy.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
	}
	return actor, ok
}
