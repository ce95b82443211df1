package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex   = regexp.MustCompile(`[a-zA-Z]`)
	numberRegex   = regexp.MustCompile(`[0-9]`)
)

// User is an operator of the system
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'staff'"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with a hashed password
func NewUser(name, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleStaff
	}
	if !role.IsValid() {
		return nil, shared.InvalidInputf("Role must be one of admin, manager, staff.")
	}

	now := time.Now()
	u := &User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetName changes the username
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if err := validateUsername(name); err != nil {
		return err
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

// SetEmail changes the email address
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.InvalidInputf("Role must be one of admin, manager, staff.")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Actor returns the user as an authorization subject
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func validateUsername(username string) error {
	if username == "" {
		return shared.InvalidInputf("Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.InvalidInputf("Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.InvalidInputf("Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.InvalidInputf("Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.InvalidInputf("Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.InvalidInputf("Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !numberRegex.MatchString(password) {
		return shared.InvalidInputf("Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.InvalidInputf("Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.InvalidInputf("Invalid email format")
	}
	return nil
}
