package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/auth"
)

var (
	errInvalidCredentials   = shared.NewDomainError(shared.CodeUnauthorized, "Invalid credentials")
	errInvalidRefreshToken  = shared.NewDomainError(shared.CodeUnauthorized, "Invalid or expired refresh token")
	errRevokedRefreshToken  = shared.NewDomainError(shared.CodeUnauthorized, "Refresh token has been revoked")
	errRefreshLimitExceeded = shared.NewDomainError(shared.CodeUnauthorized, "Refresh limit reached, please log in again")
	errUserGone             = shared.NewDomainError(shared.CodeUnauthorized, "User no longer exists")
)

// AuthService handles registration, login and the token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a staff account. The very first account becomes admin
// so a fresh installation can be administered.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	emailTaken, err := s.userRepo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, shared.AlreadyExistsf("Email already registered")
	}
	nameTaken, err := s.userRepo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if nameTaken {
		return nil, shared.AlreadyExistsf("Username already taken")
	}

	existing, err := s.userRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	role := identity.RoleStaff
	if existing == 0 {
		role = identity.RoleAdmin
	}

	user, err := identity.NewUser(req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Name),
		zap.String("role", string(user.Role)),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// Login verifies the credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByNameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown user", zap.String("identifier", req.UsernameOrEmail))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return &LoginResponse{TokenPair: *pair, User: ToUserResponse(user)}, nil
}

// Refresh rotates a refresh token. The role in the new access token is read
// from the database, and the presented refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, errInvalidRefreshToken
	}

	revoked, err := s.isRevoked(ctx, claims)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errRevokedRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errUserGone
		}
		return nil, err
	}

	pair, _, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Role)
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, errRefreshLimitExceeded
		}
		return nil, errInvalidRefreshToken
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
	}

	s.logger.Info("Token refreshed", zap.Int64("user_id", user.ID))
	return pair, nil
}

// Logout revokes the access token in use and, when given, the refresh token
// of the same user
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if err := s.blacklist.AddToBlacklist(ctx, access.ID, access.RemainingTTL()); err != nil {
		return err
	}

	if req.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
		if err == nil && refresh.UserID == access.UserID {
			if err := s.blacklist.AddToBlacklist(ctx, refresh.ID, refresh.RemainingTTL()); err != nil {
				return err
			}
		}
	}

	s.logger.Info("User logged out", zap.Int64("user_id", access.UserID))
	return nil
}

func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil || blacklisted {
		return blacklisted, err
	}
	return s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
}
