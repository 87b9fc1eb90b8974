package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
)

// PlaceOrderCommandHandler inserts a new pending order with all of its items
// in one transaction. Either every row is written or none is.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory, logger *slog.Logger) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     loggerOrDefault(logger).With("component", "place_order_handler"),
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	aggregate, err := order.NewOrder(command.OrderID(), command.Checkout(), now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return storageError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return storageError("insert order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return storageError("commit", err)
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", aggregate.ID().String(),
		"customer_id", aggregate.CustomerID().String(),
		"items", len(aggregate.Items()),
	)
	return nil
}
