package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// ReviewOrderCommandHandler lets a store confirm or reject an order. Confirming
// opens the shipper offer in the same transaction; cancelling a confirmed
// order withdraws it.
type ReviewOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	notifier   customerNotifier
	logger     *slog.Logger
}

func NewReviewOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	sink ports.NotificationSink,
	logger *slog.Logger,
) ReviewOrderCommandHandler {
	logger = loggerOrDefault(logger).With("component", "review_order_handler")
	return ReviewOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   customerNotifier{sink: sink, logger: logger},
		logger:     logger,
	}
}

// Handle returns the order status after the review.
func (h ReviewOrderCommandHandler) Handle(ctx context.Context, command ReviewOrderCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, storageError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	offers := uow.ShipperOfferRepository()
	stores := uow.StoreRepository()

	aggregate, err := orders.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return order.Unknown, storageError("load order", err)
	}

	from := aggregate.Status()
	decision, err := aggregate.Transition(order.Request{
		Actor:   order.ActorStore,
		Action:  command.action(),
		ActorID: command.StoreID(),
	}, now())
	if err != nil {
		return order.Unknown, err
	}

	if err = orders.Update(ctx, aggregate, from); err != nil {
		return order.Unknown, storageError("update order", err)
	}

	if decision.Has(order.EffectCreateShipperOffer) {
		if err = offers.Open(ctx, aggregate.ID()); err != nil {
			return order.Unknown, storageError("open shipper offer", err)
		}
	}

	if decision.Has(order.EffectWithdrawShipperOffer) {
		if err = offers.Withdraw(ctx, aggregate.ID()); err != nil {
			return order.Unknown, storageError("withdraw shipper offer", err)
		}
	}

	storeID := command.StoreID()
	storeName := storeNameOf(ctx, stores, &storeID, h.logger)

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, storageError("commit", err)
	}

	h.logger.InfoContext(ctx, "order reviewed",
		"order_id", aggregate.ID().String(),
		"store_id", storeID.String(),
		"from", decision.From.String(),
		"to", decision.To.String(),
	)

	h.notifier.emit(ctx, aggregate, decision, storeID, &storeID, notification.MessageContext{StoreName: storeName})
	return aggregate.Status(), nil
}
