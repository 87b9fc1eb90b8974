// Package orderrepo persists the order aggregate: one orders row and its
// order_items rows.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table. Timestamps come from the domain, so gorm's
// automatic time tracking is off.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryAddress string          `gorm:"type:text;not null"`
	DeliveryLat     *float64        `gorm:"type:double precision"`
	DeliveryLng     *float64        `gorm:"type:double precision"`
	PickupAddress   *string         `gorm:"type:text"`
	PickupLat       *float64        `gorm:"type:double precision"`
	PickupLng       *float64        `gorm:"type:double precision"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(32);not null"`
	Note            string          `gorm:"type:text;not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	ShipperID       *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt       time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime:false"`
	CompletedAt     *time.Time
	Items           []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order_items row. Rows are written once with the order.
type OrderItemDTO struct {
	ID       uint64          `gorm:"primaryKey;autoIncrement"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	FoodID   uuid.UUID       `gorm:"type:uuid;not null"`
	StoreID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_order_items_price,price >= 0"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerID:      aggregate.CustomerID().Bytes(),
		DeliveryAddress: aggregate.Delivery().Line(),
		TotalAmount:     aggregate.TotalAmount().Amount(),
		ShippingFee:     aggregate.ShippingFee().Amount(),
		PaymentMethod:   aggregate.PaymentMethod(),
		Note:            aggregate.Note(),
		Status:          aggregate.Status().String(),
		ShipperID:       optionalID(aggregate.Shipper()),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		CompletedAt:     aggregate.CompletedAt(),
	}

	if point := aggregate.Delivery().Point(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.DeliveryLat, dto.DeliveryLng = &lat, &lng
	}

	if pickup := aggregate.Pickup(); pickup != nil {
		line := pickup.Line()
		dto.PickupAddress = &line
		if point := pickup.Point(); point != nil {
			lat, lng := point.Lat(), point.Lng()
			dto.PickupLat, dto.PickupLng = &lat, &lng
		}
	}

	items := aggregate.Items()
	dto.Items = make([]OrderItemDTO, 0, len(items))
	for _, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:  dto.ID,
			FoodID:   item.FoodID().Bytes(),
			StoreID:  item.StoreID().Bytes(),
			Quantity: item.Quantity(),
			Price:    item.UnitPrice().Amount(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromRaw(dto.CustomerID)
	if err != nil {
		return nil, err
	}

	deliveryPoint, err := kernel.NewOptionalGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewAddress(dto.DeliveryAddress, deliveryPoint)
	if err != nil {
		return nil, err
	}

	var pickup *kernel.Address
	if dto.PickupAddress != nil {
		pickupPoint, pointErr := kernel.NewOptionalGeoPoint(dto.PickupLat, dto.PickupLng)
		if pointErr != nil {
			return nil, pointErr
		}
		address, addrErr := kernel.NewAddress(*dto.PickupAddress, pickupPoint)
		if addrErr != nil {
			return nil, addrErr
		}
		pickup = &address
	}

	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}
	fee, err := kernel.NewMoney(dto.ShippingFee)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var shipperID *kernel.UUID
	if dto.ShipperID != nil {
		shipper, shipperErr := kernel.UUIDFromRaw(*dto.ShipperID)
		if shipperErr != nil {
			return nil, shipperErr
		}
		shipperID = &shipper
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID: id,
		Checkout: order.Checkout{
			CustomerID:    customerID,
			Delivery:      delivery,
			Pickup:        pickup,
			Items:         items,
			TotalAmount:   total,
			ShippingFee:   fee,
			PaymentMethod: dto.PaymentMethod,
			Note:          dto.Note,
		},
		Status:      status,
		ShipperID:   shipperID,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
		CompletedAt: dto.CompletedAt,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	foodID, err := kernel.UUIDFromRaw(dto.FoodID)
	if err != nil {
		return order.Item{}, err
	}
	storeID, err := kernel.UUIDFromRaw(dto.StoreID)
	if err != nil {
		return order.Item{}, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(foodID, storeID, dto.Quantity, price)
}
