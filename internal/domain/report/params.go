package report

import "github.com/wms/backend/internal/domain/shared"

const (
	// MinLowStockThreshold is the smallest accepted low-stock threshold
	MinLowStockThreshold = 10
	DefaultLimit         = 50
	MaxLimit             = 500
)

// ValidateThreshold rejects thresholds below MinLowStockThreshold
func ValidateThreshold(threshold int64) error {
	if threshold < MinLowStockThreshold {
		return shared.InvalidInputf("Threshold must be at least %d.", MinLowStockThreshold)
	}
	return nil
}

// ValidateLimit rejects limits outside 1..MaxLimit
func ValidateLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return shared.InvalidInputf("Limit must be between 1 and %d.", MaxLimit)
	}
	return nil
}
