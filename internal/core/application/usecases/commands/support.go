package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// storageError keeps domain errors intact and wraps everything else as a
// persistence failure of op.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}

	var persistence *errs.PersistenceError
	if errors.As(err, &persistence) || errs.KindOf(err) != errs.KindPersistence {
		return err
	}
	return errs.NewPersistenceError(op, err)
}

func now() time.Time {
	return time.Now().UTC()
}

// customerNotifier emits the notifications of a committed decision. Failures
// are logged and never reach the caller.
type customerNotifier struct {
	sink   ports.NotificationSink
	logger *slog.Logger
}

func (n customerNotifier) emit(
	ctx context.Context,
	o *order.Order,
	decision order.Decision,
	actorID kernel.UUID,
	storeID *kernel.UUID,
	msg notification.MessageContext,
) {
	if n.sink == nil {
		return
	}

	// The request may be cancelled once the response is written.
	ctx = context.WithoutCancel(ctx)
	msg.OrderID = o.ID()

	for _, typ := range decision.Notifications() {
		draft := notification.Draft{
			OrderID:     o.ID(),
			RecipientID: o.CustomerID(),
			ActorID:     actorID,
			StoreID:     storeID,
			Type:        typ,
			Message:     notification.Compose(typ, msg),
		}

		if err := n.sink.Publish(ctx, draft); err != nil {
			n.logger.WarnContext(ctx, "customer notification failed",
				"kind", errs.KindNotification,
				"order_id", o.ID().String(),
				"type", string(typ),
				"error", err,
			)
		}
	}
}

// storeNameOf looks up a store for notification text. A failed lookup only
// degrades the message, so it is logged and an empty name is returned.
func storeNameOf(ctx context.Context, stores ports.StoreRepository, id *kernel.UUID, logger *slog.Logger) string {
	if id == nil {
		return ""
	}

	name, err := stores.Name(ctx, *id)
	if err != nil {
		logger.DebugContext(ctx, "store name lookup failed", "store_id", id.String(), "error", err)
		return ""
	}
	return name
}

func firstStoreID(o *order.Order) *kernel.UUID {
	ids := o.StoreIDs()
	if len(ids) == 0 {
		return nil
	}
	return &ids[0]
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
