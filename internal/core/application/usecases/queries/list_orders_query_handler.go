package queries

import (
	"context"

	"marketplace/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	reader orderViewReader
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: orderViewReader{db: db}}
}

// Handle returns the matching orders newest first, or an empty slice.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	subject, _ := query.Subject()

	switch query.Filter() {
	case FilterPending:
		return h.reader.list(ctx, "o.status = ?", order.Pending.String())
	case FilterConfirmed:
		return h.reader.list(ctx, "o.status = ?", order.Confirmed.String())
	case FilterStore:
		return h.reader.list(ctx,
			"o.id IN (SELECT DISTINCT order_id FROM order_items WHERE store_id = ?)",
			subject.Bytes(),
		)
	case FilterShipperActive:
		return h.reader.list(ctx,
			"o.shipper_id = ? AND o.status IN ?",
			subject.Bytes(), []string{order.Preparing.String(), order.Delivering.String()},
		)
	case FilterCustomer:
		return h.reader.list(ctx, "o.customer_id = ?", subject.Bytes())
	}

	return make([]OrderView, 0), nil
}
