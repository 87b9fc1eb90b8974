package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

type OrderRepository interface {
	// Add inserts the order together with all of its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, shipper and timestamps, provided the stored
	// status still equals expected. Otherwise it fails with
	// errs.ErrConcurrentModification.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads the order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
