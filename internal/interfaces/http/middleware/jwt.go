package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storemanager/backend/internal/infrastructure/auth"
	"github.com/storemanager/backend/internal/infrastructure/logger"
	"github.com/storemanager/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/ping",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, reason := bearerToken(c)
		if token == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, reason)
			return
		}

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)

		// Propagate user id into the request context for the logger
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (cfg JWTMiddlewareConfig) shouldSkip(path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from the Authorization header, returning a
// reason string when none is present.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(AuthHeaderKey)
	switch {
	case header == "":
		return "", "Missing authorization header"
	case !strings.HasPrefix(header, BearerPrefix):
		return "", "Invalid authorization header format"
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", "Missing token"
	}
	return token, ""
}

// handleAuthError converts auth failures into a 401 envelope
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("jwt authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		code = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code = dto.ErrCodeTokenInvalid
		errorMessage = "Token is not yet valid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, errorMessage))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTUserIDInt64 retrieves the user ID from JWT claims as int64, 0 when absent
func GetJWTUserIDInt64(c *gin.Context) int64 {
	id, err := strconv.ParseInt(GetJWTUserID(c), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// GetJWTUsername retrieves the username from JWT claims in context
func GetJWTUsername(c *gin.Context) string {
	if username, exists := c.Get(JWTUsernameKey); exists {
		if u, ok := username.(string); ok {
			return u
		}
	}
	return ""
}
