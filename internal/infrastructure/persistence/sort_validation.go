package persistence

import (
	"errors"
	"strings"

	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to ASC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField returns sortField when whitelisted and defaultField otherwise
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var (
	CategorySortFields = map[string]bool{"id": true, "name": true, "created_at": true}
	ProductSortFields  = map[string]bool{
		"id": true, "name": true, "sku": true, "unit_price": true, "quantity": true, "created_at": true,
	}
	PartnerSortFields = map[string]bool{"id": true, "name": true, "created_at": true}
	OrderSortFields   = map[string]bool{"id": true, "status": true, "created_at": true}
	UserSortFields    = map[string]bool{"id": true, "name": true, "email": true, "role": true, "created_at": true}
)

// paginate applies ordering, limit and offset from the filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "id")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}

// searchPattern builds a case-insensitive LIKE pattern. LOWER keeps the
// query portable between PostgreSQL and SQLite.
func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// translateError maps GORM sentinel errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeInvalidState, "Record is still referenced by other records")
	default:
		return err
	}
}
