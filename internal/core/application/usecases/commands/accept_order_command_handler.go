package commands

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AcceptOrderCommandHandler assigns a confirmed order to the first shipper
// that claims it. The order row stays locked from the status check to the
// commit, so concurrent claims are serialized and exactly one succeeds; the
// others observe the new status and fail with errs.ErrAlreadyAssigned.
type AcceptOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	notifier   customerNotifier
	logger     *slog.Logger
}

func NewAcceptOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	sink ports.NotificationSink,
	logger *slog.Logger,
) AcceptOrderCommandHandler {
	logger = loggerOrDefault(logger).With("component", "accept_order_handler")
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   customerNotifier{sink: sink, logger: logger},
		logger:     logger,
	}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storageError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	orders := uow.OrderRepository()
	offers := uow.ShipperOfferRepository()
	stores := uow.StoreRepository()

	shipperID := command.ShipperID()
	shipper, err := users.Get(ctx, shipperID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewObjectNotFoundErrorWithCause("shipper", shipperID.String(), err)
	}
	if err != nil {
		return storageError("load shipper", err)
	}

	if err = shipper.CanDeliver(); err != nil {
		return err
	}

	aggregate, err := orders.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return storageError("load order", err)
	}

	from := aggregate.Status()
	decision, err := aggregate.Transition(order.Request{
		Actor:   order.ActorShipper,
		Action:  order.ActionAccept,
		ActorID: shipperID,
	}, now())
	if err != nil {
		return err
	}

	if shipper.PromoteToShipper() {
		if err = users.SetRole(ctx, shipperID, user.RoleShipper); err != nil {
			return storageError("promote shipper", err)
		}
		h.logger.InfoContext(ctx, "user promoted to shipper", "user_id", shipperID.String())
	}

	if err = orders.Update(ctx, aggregate, from); err != nil {
		return storageError("update order", err)
	}

	if decision.Has(order.EffectTakeShipperOffer) {
		if err = offers.Take(ctx, aggregate.ID(), shipperID); err != nil {
			return storageError("take shipper offer", err)
		}
	}

	storeID := firstStoreID(aggregate)
	storeName := storeNameOf(ctx, stores, storeID, h.logger)

	if err = uow.Commit(ctx); err != nil {
		return storageError("commit", err)
	}

	h.logger.InfoContext(ctx, "order accepted",
		"order_id", aggregate.ID().String(),
		"shipper_id", shipperID.String(),
	)

	h.notifier.emit(ctx, aggregate, decision, shipperID, storeID, notification.MessageContext{
		ShipperName: shipper.FullName(),
		StoreName:   storeName,
	})
	return nil
}
