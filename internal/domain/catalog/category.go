package catalog

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wms/backend/internal/domain/shared"
)

var categoryNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// Category groups products for browsing and reporting
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category with a validated name
func NewCategory(name, description string) (*Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update changes the category's name and description
func (c *Category) Update(name, description string) error {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return err
	}

	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = time.Now()
	return nil
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !categoryNamePattern.MatchString(name) {
		return "", shared.InvalidInputf("Category name must contain only letters and spaces, cannot be a number")
	}
	if len(name) > 100 {
		return "", shared.InvalidInputf("Category name cannot exceed 100 characters")
	}
	// "power  TOOLS" and "Power Tools" are the same category.
	// Casers are stateful so one is built per call.
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " ")), nil
}
