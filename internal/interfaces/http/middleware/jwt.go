package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// Logger for middleware logging
	Logger *zap.Logger
}

// JWTAuth validates the bearer access token, rejects revoked tokens and
// stores the claims for downstream handlers
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			abortWithError(c, dto.ErrCodeTokenInvalid, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			log.Debug("JWT validation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		if cfg.TokenBlacklist != nil && isRevoked(c, cfg.TokenBlacklist, claims, log) {
			abortWithError(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// isRevoked checks the token and user-wide blacklists. Lookup failures are
// logged and let the request through so a blacklist outage does not lock
// every user out.
func isRevoked(c *gin.Context, blacklist auth.TokenBlacklist, claims *auth.Claims, log *zap.Logger) bool {
	ctx := c.Request.Context()

	blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
	} else if blacklisted {
		return true
	}

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		log.Error("Failed to check user token invalidation", zap.Int64("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return invalidated
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

// GetActor returns the authenticated actor, or the zero Actor which every
// authorization check denies
func GetActor(c *gin.Context) identity.Actor {
	if claims := GetJWTClaims(c); claims != nil {
		return claims.Actor()
	}
	return identity.Actor{}
}
