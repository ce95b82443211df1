package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned by NewBusinessMetrics when no meter is given
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// OrderType labels order metrics
type OrderType string

const (
	OrderTypePurchase OrderType = "purchase"
	OrderTypeSales    OrderType = "sales"
)

// BusinessMetrics counts order and receipt activity and tracks how many
// products the last low-stock report returned.
type BusinessMetrics struct {
	orderCreatedTotal    *Counter
	orderAmountTotal     *Counter
	orderReceivedTotal   *Counter
	receivedUnitsTotal   *Counter
	lowStockProductCount *Gauge
}

// NewBusinessMetrics registers the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error

	if bm.orderCreatedTotal, err = NewCounter(meter,
		"wms_order_created_total", "Total number of orders created", "{orders}"); err != nil {
		return nil, err
	}
	if bm.orderAmountTotal, err = NewCounter(meter,
		"wms_order_amount_total", "Total order value in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.orderReceivedTotal, err = NewCounter(meter,
		"wms_purchase_order_received_total", "Receipts booked against purchase orders", "{receipts}"); err != nil {
		return nil, err
	}
	if bm.receivedUnitsTotal, err = NewCounter(meter,
		"wms_received_units_total", "Units added to stock by purchase order receipts", "{units}"); err != nil {
		return nil, err
	}
	if bm.lowStockProductCount, err = NewGauge(meter,
		"wms_low_stock_product_count", "Products at or below the last requested low-stock threshold", "{products}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordOrderCreated counts one new order and adds its total in cents
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, orderType OrderType, total decimal.Decimal) {
	attr := AttrOrderType.String(string(orderType))
	bm.orderCreatedTotal.Inc(ctx, attr)
	bm.orderAmountTotal.Add(ctx, total.Mul(decimal.NewFromInt(100)).IntPart(), attr)
}

// RecordReceipt counts one booked receipt, labelled with the order status it
// produced, and the units it moved into stock.
func (bm *BusinessMetrics) RecordReceipt(ctx context.Context, status string, units int64) {
	bm.orderReceivedTotal.Inc(ctx, AttrReceiptStatus.String(status))
	bm.receivedUnitsTotal.Add(ctx, units)
}

// RecordLowStockCount sets the low-stock gauge
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, count int64) {
	bm.lowStockProductCount.Record(ctx, count)
}
