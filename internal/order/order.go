// Package order models finalized order drafts and records them durably.
package order

import (
	"context"
	"time"
)

// Line is one finalized order line.
type Line struct {
	Category    string
	Subcategory string
	Name        string
	DisplayName string
	Quantity    int
	UnitPrice   float64
}

// Draft is an order ready to be recorded. Built once from the cart on
// explicit confirmation; never re-emitted.
type Draft struct {
	ID           string
	CustomerID   string
	Lines        []Line
	Subtotal     float64
	Discount     float64
	Delivery     float64
	Total        float64
	DeliveryType string // "retiro" or "envio"
	CreatedAt    time.Time
}

// Recorder persists finalized orders. The engine clears the cart only after
// Record succeeds; on failure the cart is retained and the customer asked to
// retry.
type Recorder interface {
	Record(ctx context.Context, d *Draft) (orderID string, err error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]Draft, error)
}
