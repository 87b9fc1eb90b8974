package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction. Repositories obtained after Begin
// are bound to it.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	UserRepository() UserRepository

	StoreRepository() StoreRepository

	ShipperOfferRepository() ShipperOfferRepository

	EarningRepository() EarningRepository

	NotificationRepository() NotificationRepository
}
