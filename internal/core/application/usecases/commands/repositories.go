// Package commands contains the operations that move orders through their
// lifecycle. Every handler runs its writes in one Unit of Work: it locks the
// order row, asks the transition engine for a decision, writes every derived
// row and commits. Customer notifications are emitted only after the commit.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces consumed by command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW is used when only orders and their items are written.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// FulfillmentUoW spans every repository a lifecycle transition may touch.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil { ... }
	//	defer func() { _ = uow.Rollback(ctx) }()
	//
	//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//	// ... transition, write derived rows
	//
	//	err = uow.Commit(ctx)
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		UserRepository() ports.UserRepository
		StoreRepository() ports.StoreRepository
		ShipperOfferRepository() ports.ShipperOfferRepository
		EarningRepository() ports.EarningRepository
	}

	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}
)
