package ports

import (
	"context"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
)

// ShipperOfferRepository manages the per order record that advertises a
// confirmed order to shippers.
type ShipperOfferRepository interface {
	Open(ctx context.Context, orderID kernel.UUID) error
	Take(ctx context.Context, orderID, shipperID kernel.UUID) error
	Withdraw(ctx context.Context, orderID kernel.UUID) error
}

type EarningRepository interface {
	Record(ctx context.Context, entry *earning.Entry) error
}
