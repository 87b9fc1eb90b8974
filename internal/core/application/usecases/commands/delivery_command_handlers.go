package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

type deliveryCommand interface {
	Validate() error
	OrderID() kernel.UUID
	ShipperID() kernel.UUID
	action() order.Action
}

// deliveryProgress runs start and complete delivery. Only the assigned
// shipper may report progress; completing also writes the earning ledger row
// in the same transaction.
type deliveryProgress struct {
	uowFactory FulfillmentUoWFactory
	notifier   customerNotifier
	earnings   ports.EarningsCacheInvalidator
	logger     *slog.Logger
}

func newDeliveryProgress(uowFactory FulfillmentUoWFactory, sink ports.NotificationSink, logger *slog.Logger) deliveryProgress {
	return deliveryProgress{
		uowFactory: uowFactory,
		notifier:   customerNotifier{sink: sink, logger: logger},
		logger:     logger,
	}
}

func (p deliveryProgress) handle(ctx context.Context, command deliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storageError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	orders := uow.OrderRepository()
	earnings := uow.EarningRepository()

	shipperID := command.ShipperID()
	aggregate, err := orders.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return storageError("load order", err)
	}

	from := aggregate.Status()
	at := now()
	decision, err := aggregate.Transition(order.Request{
		Actor:   order.ActorShipper,
		Action:  command.action(),
		ActorID: shipperID,
	}, at)
	if err != nil {
		return err
	}

	if err = orders.Update(ctx, aggregate, from); err != nil {
		return storageError("update order", err)
	}

	if decision.Has(order.EffectRecordEarning) {
		entry, entryErr := earning.NewEntry(aggregate.ID(), shipperID, aggregate.ShippingFee(), at)
		if entryErr != nil {
			return entryErr
		}
		if err = earnings.Record(ctx, entry); err != nil {
			return storageError("record earning", err)
		}
	}

	var shipperName string
	if shipper, lookupErr := users.Get(ctx, shipperID); lookupErr == nil {
		shipperName = shipper.FullName()
	}

	if err = uow.Commit(ctx); err != nil {
		return storageError("commit", err)
	}

	p.logger.InfoContext(ctx, "delivery progressed",
		"order_id", aggregate.ID().String(),
		"shipper_id", shipperID.String(),
		"from", decision.From.String(),
		"to", decision.To.String(),
	)

	if decision.Has(order.EffectRecordEarning) && p.earnings != nil {
		if err = p.earnings.Invalidate(context.WithoutCancel(ctx), shipperID); err != nil {
			p.logger.WarnContext(ctx, "earnings cache invalidation failed",
				"shipper_id", shipperID.String(),
				"error", err,
			)
		}
	}

	p.notifier.emit(ctx, aggregate, decision, shipperID, firstStoreID(aggregate), notification.MessageContext{
		ShipperName: shipperName,
	})
	return nil
}

type StartDeliveryCommandHandler struct {
	progress deliveryProgress
}

func NewStartDeliveryCommandHandler(
	uowFactory FulfillmentUoWFactory,
	sink ports.NotificationSink,
	logger *slog.Logger,
) StartDeliveryCommandHandler {
	logger = loggerOrDefault(logger).With("component", "start_delivery_handler")
	return StartDeliveryCommandHandler{progress: newDeliveryProgress(uowFactory, sink, logger)}
}

// Handle fails with errs.ErrUnauthorized when the caller is not the assigned
// shipper and with errs.ErrInvalidState when the order is not preparing.
func (h StartDeliveryCommandHandler) Handle(ctx context.Context, command StartDeliveryCommand) error {
	return h.progress.handle(ctx, command)
}

type CompleteDeliveryCommandHandler struct {
	progress deliveryProgress
}

func NewCompleteDeliveryCommandHandler(
	uowFactory FulfillmentUoWFactory,
	sink ports.NotificationSink,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	logger = loggerOrDefault(logger).With("component", "complete_delivery_handler")
	return CompleteDeliveryCommandHandler{progress: newDeliveryProgress(uowFactory, sink, logger)}
}

// WithEarningsCache returns a copy of h that drops the shipper's cached
// earnings after every completion. A nil cache disables invalidation.
func (h CompleteDeliveryCommandHandler) WithEarningsCache(cache ports.EarningsCacheInvalidator) CompleteDeliveryCommandHandler {
	h.progress.earnings = cache
	return h
}

// Handle fails with errs.ErrUnauthorized when the caller is not the assigned
// shipper and with errs.ErrInvalidState when the order is not delivering.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) error {
	return h.progress.handle(ctx, command)
}
