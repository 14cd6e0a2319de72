package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storemanager/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims represents the custom JWT claims carried by dashboard tokens.
// Capabilities holds the store capability names granted to the user
// (e.g. manage_products, manage_orders).
type Claims struct {
	jwt.RegisteredClaims
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	UserID       int64
	Username     string
	Capabilities []string
}

// GenerateToken issues a signed access token for a dashboard user
func (s *JWTService) GenerateToken(input GenerateTokenInput) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(input.UserID, 10),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:       strconv.FormatInt(input.UserID, 10),
		Username:     input.Username,
		Capabilities: input.Capabilities,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates an access token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}

	return claims, nil
}

// GetUserID extracts the numeric user id from claims
func (c *Claims) GetUserID() (int64, error) {
	id, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidClaims
	}
	return id, nil
}

// HasCapability checks if the claims grant a specific capability
func (c *Claims) HasCapability(capability string) bool {
	for _, granted := range c.Capabilities {
		if granted == capability {
			return true
		}
	}
	return false
}

// HasAnyCapability checks if the claims grant any of the given capabilities
func (c *Claims) HasAnyCapability(capabilities ...string) bool {
	for _, required := range capabilities {
		if c.HasCapability(required) {
			return true
		}
	}
	return false
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *Claims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// GetAccessTokenExpiration returns the configured token lifetime
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.expiration
}
