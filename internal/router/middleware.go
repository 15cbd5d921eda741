package router

import (
	"net/http"
	"strings"

	"github.com/Akila-Wasalathilaka/cognihire/internal/auth"
	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthRequired validates the bearer token and places the resulting principal
// in the request context. No session state is kept server-side.
func AuthRequired(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.Parse(tokenString, config.Conf.Auth.JWTSecret)
		if err != nil {
			log.Debug("Rejected bearer token", zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("principal", services.Principal{
			UserID:   claims.UserID,
			TenantID: claims.TenantID,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// AdminOnly rejects principals that are not administrators. Must run after
// AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, exists := c.Get("principal")
		if !exists || p.(services.Principal).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
