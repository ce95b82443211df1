package identity

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByNameOrEmail matches either the username or the email address
	FindByNameOrEmail(ctx context.Context, identifier string) (*User, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
