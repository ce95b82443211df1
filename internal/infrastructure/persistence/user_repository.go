package persistence

import (
	"context"
	"strings"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByNameOrEmail finds a user by username or email address
func (r *GormUserRepository) FindByNameOrEmail(ctx context.Context, identifier string) (*identity.User, error) {
	identifier = strings.TrimSpace(identifier)
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("name = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindAll lists users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := paginate(r.filtered(ctx, filter), filter, UserSortFields)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&identity.User{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR email LIKE ?", pattern, pattern)
	}
	return query
}

// ExistsByName checks whether another user has the username
func (r *GormUserRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.User{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks whether another user has the email address
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.User{}).
		Where("email = ? AND id <> ?", strings.ToLower(email), excludeID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

// Update saves all user fields
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return translateError(r.db.WithContext(ctx).Save(user).Error)
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
