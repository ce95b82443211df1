package identity

import (
	"context"
	"time"

	"go.uber.org/zap"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/auth"
)

// UserService handles user self-service and administration. Every method
// takes the acting user and checks it with identity.Authorize.
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new user service. sessionTTL is how long a
// user-wide token revocation must be remembered, normally the refresh
// token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Me returns the acting user's own account
func (s *UserService) Me(ctx context.Context, actor identity.Actor) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, appshared.NotFound(err, "User not found")
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns one page of users; manager or admin only
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter appshared.ListFilter) (shared.Paginated[UserResponse], error) {
	if err := identity.Authorize(actor, identity.ActionRead, identity.Resource{Kind: identity.ResourceUser}).Err(); err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	domainFilter := filter.ToDomain()

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}

	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// GetByID returns a user; self or admin only
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, id int64) (*UserResponse, error) {
	if err := identity.Authorize(actor, identity.ActionRead, identity.UserResource(id)).Err(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "User not found")
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Update changes the provided fields of a user. Users may edit themselves;
// admins may edit anyone and are the only ones who may change a role.
// Outstanding tokens are revoked when the role or password changes.
func (s *UserService) Update(ctx context.Context, actor identity.Actor, id int64, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "User not found")
	}
	if err := identity.Authorize(actor, identity.ActionWrite, identity.UserResource(id)).Err(); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := user.SetName(*req.Name); err != nil {
			return nil, err
		}
		taken, err := s.userRepo.ExistsByName(ctx, user.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.AlreadyExistsf("Username already taken")
		}
	}
	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
		taken, err := s.userRepo.ExistsByEmail(ctx, user.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.AlreadyExistsf("Email already registered")
		}
	}

	revoke := false
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
		revoke = true
	}
	if req.Role != nil && identity.Role(*req.Role) != user.Role {
		if err := identity.Authorize(actor, identity.ActionChangeRole, identity.UserResource(id)).Err(); err != nil {
			return nil, err
		}
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
		revoke = true
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSessions(ctx, user.ID)
	}

	s.logger.Info("User updated",
		zap.Int64("user_id", user.ID),
		zap.Int64("actor_id", actor.UserID),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user and revokes their tokens; admin only
func (s *UserService) Delete(ctx context.Context, actor identity.Actor, id int64) error {
	if err := identity.Authorize(actor, identity.ActionDelete, identity.UserResource(id)).Err(); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return appshared.NotFound(err, "User not found")
	}
	s.revokeSessions(ctx, id)

	s.logger.Info("User deleted",
		zap.Int64("user_id", id),
		zap.Int64("actor_id", actor.UserID),
	)
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID int64) {
	if err := s.blacklist.InvalidateUser(ctx, userID, s.sessionTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.Int64("user_id", userID), zap.Error(err))
	}
}
