// Package queries holds the read side: order projections for stores,
// shippers and customers, and the shipper earnings summary. Queries read
// PostgreSQL directly with raw SQL and never lock rows.
package queries

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderView is an order with its items and the display names of the people
// and stores involved.
type OrderView struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	CustomerName  string
	CustomerPhone string

	DeliveryAddress string
	DeliveryLat     *float64
	DeliveryLng     *float64
	PickupAddress   *string
	PickupLat       *float64
	PickupLng       *float64

	Status      order.Status
	ShipperID   *kernel.UUID
	ShipperName string

	TotalAmount   decimal.Decimal
	ShippingFee   decimal.Decimal
	PaymentMethod string
	Note          string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time

	Items []OrderItemView
}

type OrderItemView struct {
	FoodID       kernel.UUID
	FoodName     string
	StoreID      kernel.UUID
	StoreName    string
	StoreAddress string
	StorePhone   string
	Quantity     int
	Price        decimal.Decimal
}

const orderViewSelect = `
	SELECT
		o.id,
		o.customer_id,
		COALESCE(c.full_name, ''),
		COALESCE(c.phone_number, ''),
		o.delivery_address,
		o.delivery_lat,
		o.delivery_lng,
		o.pickup_address,
		o.pickup_lat,
		o.pickup_lng,
		o.status,
		o.shipper_id,
		COALESCE(s.full_name, ''),
		o.total_amount,
		o.shipping_fee,
		o.payment_method,
		o.note,
		o.created_at,
		o.updated_at,
		o.completed_at
	FROM orders o
	LEFT JOIN users c ON c.id = o.customer_id
	LEFT JOIN users s ON s.id = o.shipper_id
`

const orderItemViewSelect = `
	SELECT
		oi.order_id,
		oi.food_id,
		COALESCE(f.name, ''),
		oi.store_id,
		COALESCE(st.name, ''),
		COALESCE(st.address, ''),
		COALESCE(st.phone_number, ''),
		oi.quantity,
		oi.price
	FROM order_items oi
	LEFT JOIN foods f ON f.id = oi.food_id
	LEFT JOIN stores st ON st.id = oi.store_id
	WHERE oi.order_id IN ?
	ORDER BY oi.id
`

// orderViewReader loads orders in two round trips: the matching orders
// first, then all of their items in one IN query. Items are grouped by order
// in memory, so every order appears once whatever its item count.
type orderViewReader struct {
	db *gorm.DB
}

func (r orderViewReader) list(ctx context.Context, where string, args ...any) ([]OrderView, error) {
	views := make([]OrderView, 0)

	rows, err := r.db.WithContext(ctx).Raw(
		orderViewSelect+"WHERE "+where+"\nORDER BY o.created_at DESC, o.id", args...,
	).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("select orders", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var (
			view                     OrderView
			id, customerID           uuid.UUID
			shipperID                uuid.NullUUID
			status                   string
			completedAt              *time.Time
			pickupAddress            *string
			deliveryLat, deliveryLng *float64
			pickupLat, pickupLng     *float64
		)

		if err = rows.Scan(
			&id,
			&customerID,
			&view.CustomerName,
			&view.CustomerPhone,
			&view.DeliveryAddress,
			&deliveryLat,
			&deliveryLng,
			&pickupAddress,
			&pickupLat,
			&pickupLng,
			&status,
			&shipperID,
			&view.ShipperName,
			&view.TotalAmount,
			&view.ShippingFee,
			&view.PaymentMethod,
			&view.Note,
			&view.CreatedAt,
			&view.UpdatedAt,
			&completedAt,
		); err != nil {
			return nil, errs.NewPersistenceError("scan order", err)
		}

		if view.ID, err = kernel.UUIDFromRaw(id); err != nil {
			return nil, err
		}
		if view.CustomerID, err = kernel.UUIDFromRaw(customerID); err != nil {
			return nil, err
		}
		if shipperID.Valid {
			shipper, idErr := kernel.UUIDFromRaw(shipperID.UUID)
			if idErr != nil {
				return nil, idErr
			}
			view.ShipperID = &shipper
		}
		if view.Status, err = order.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}

		view.DeliveryLat, view.DeliveryLng = deliveryLat, deliveryLng
		view.PickupAddress = pickupAddress
		view.PickupLat, view.PickupLng = pickupLat, pickupLng
		view.CompletedAt = completedAt
		view.Items = make([]OrderItemView, 0)

		views = append(views, view)
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("iterate orders", err)
	}

	if len(ids) == 0 {
		return views, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if orderItems, ok := items[views[i].ID.Bytes()]; ok {
			views[i].Items = orderItems
		}
	}

	return views, nil
}

func (r orderViewReader) items(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItemView, error) {
	rows, err := r.db.WithContext(ctx).Raw(orderItemViewSelect, orderIDs).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("select order items", err)
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]OrderItemView, len(orderIDs))
	for rows.Next() {
		var (
			item                   OrderItemView
			orderID, food, storeID uuid.UUID
		)

		if err = rows.Scan(
			&orderID,
			&food,
			&item.FoodName,
			&storeID,
			&item.StoreName,
			&item.StoreAddress,
			&item.StorePhone,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return nil, errs.NewPersistenceError("scan order item", err)
		}

		if item.FoodID, err = kernel.UUIDFromRaw(food); err != nil {
			return nil, err
		}
		if item.StoreID, err = kernel.UUIDFromRaw(storeID); err != nil {
			return nil, err
		}

		grouped[orderID] = append(grouped[orderID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("iterate order items", err)
	}

	return grouped, nil
}
