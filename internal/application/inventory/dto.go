package inventory

import (
	"time"
)

// StockResponse is the on-hand stock of one product. Tracked is false when
// the product has no inventory row yet and Quantity falls back to the
// product's own counter.
type StockResponse struct {
	ProductID   int64      `json:"product_id"`
	ProductName string     `json:"product_name"`
	SKU         string     `json:"sku"`
	Quantity    int64      `json:"quantity"`
	Tracked     bool       `json:"tracked"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}
