package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storemanager/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Capability is a closed enumeration of the permissions this API checks.
// Capabilities arrive in the JWT claims' capability list.
type Capability string

const (
	// CapabilityManageProducts guards product CRUD and the low-stock report
	CapabilityManageProducts Capability = "manage_products"
	// CapabilityManageOrders guards order operations and the sales/bestseller reports
	CapabilityManageOrders Capability = "manage_orders"
)

// CapabilityConfig holds configuration for the capability gate
type CapabilityConfig struct {
	Logger *zap.Logger
}

// RequireCapability creates middleware that rejects requests whose JWT claims
// lack the given capability. Must run after JWTAuthMiddleware.
func RequireCapability(capability Capability) gin.HandlerFunc {
	return RequireCapabilityWithConfig(capability, CapabilityConfig{})
}

// RequireCapabilityWithConfig creates the capability gate with custom config
func RequireCapabilityWithConfig(capability Capability, cfg CapabilityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		if !claims.HasCapability(string(capability)) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("capability denied",
					zap.String("user_id", claims.UserID),
					zap.String("required", string(capability)),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Sorry, you are not allowed to do that."))
			return
		}

		c.Next()
	}
}
