package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID       int64         `json:"user_id"`
	Username     string        `json:"username"`
	Role         identity.Role `json:"role"`
	TokenType    TokenType     `json:"token_type"`
	RefreshCount int           `json:"refresh_count,omitempty"`
}

// Actor returns the authorization subject carried by the token
func (c *Claims) Actor() identity.Actor {
	return identity.Actor{UserID: c.UserID, Role: c.Role}
}

// IssuedAtTime returns the token's issued-at time
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time until the token expires, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// JWTService handles JWT token operations
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	maxRefreshCount   int
}

// NewJWTService creates a new JWT service. The access secret signs refresh
// tokens too unless a dedicated refresh secret is configured.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if cfg.RefreshSecret == "" {
		refreshSecret = []byte(cfg.Secret)
	}

	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     refreshSecret,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		maxRefreshCount:   cfg.MaxRefreshCount,
	}
}

// GenerateTokenPair issues a fresh access and refresh token for the user
func (s *JWTService) GenerateTokenPair(user *identity.User) (*TokenPair, error) {
	return s.issue(user.ID, user.Name, user.Role, 0)
}

// RefreshTokenPair exchanges a valid refresh token for a new pair. The role is
// taken from the caller so that a role change made since the last login
// shows up in the new access token.
func (s *JWTService) RefreshTokenPair(refreshToken string, role identity.Role) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}

	pair, err := s.issue(claims.UserID, claims.Username, role, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

func (s *JWTService) issue(userID int64, username string, role identity.Role, refreshCount int) (*TokenPair, error) {
	now := time.Now()
	subject := strconv.FormatInt(userID, 10)

	registered := func(ttl time.Duration) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		}
	}

	accessToken, err := s.sign(&Claims{
		RegisteredClaims: registered(s.accessExpiration),
		UserID:           userID,
		Username:         username,
		Role:             role,
		TokenType:        TokenTypeAccess,
	}, s.accessSecret)
	if err != nil {
		return nil, err
	}

	// Refresh tokens carry no role; it is re-read on every refresh
	refreshToken, err := s.sign(&Claims{
		RegisteredClaims: registered(s.refreshExpiration),
		UserID:           userID,
		Username:         username,
		TokenType:        TokenTypeRefresh,
		RefreshCount:     refreshCount,
	}, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, secret []byte, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID <= 0 {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// AccessTokenExpiration returns the configured access token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// RefreshTokenExpiration returns the configured refresh token lifetime
func (s *JWTService) RefreshTokenExpiration() time.Duration {
	return s.refreshExpiration
}
