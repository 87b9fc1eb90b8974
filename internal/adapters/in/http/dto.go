package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type PlaceOrderItem struct {
	FoodID   openapi_types.UUID `json:"foodId"`
	StoreID  openapi_types.UUID `json:"storeId"`
	Quantity int                `json:"quantity"`
	Price    decimal.Decimal    `json:"price"`
}

type PlaceOrderRequest struct {
	CustomerID    openapi_types.UUID `json:"customerId"`
	Address       string             `json:"address"`
	Lat           *float64           `json:"lat,omitempty"`
	Lng           *float64           `json:"lng,omitempty"`
	StoreAddress  *string            `json:"storeAddress,omitempty"`
	StoreLat      *float64           `json:"storeLat,omitempty"`
	StoreLng      *float64           `json:"storeLng,omitempty"`
	Items         []PlaceOrderItem   `json:"items"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	Note          string             `json:"note,omitempty"`
	ShippingFee   *decimal.Decimal   `json:"shippingFee,omitempty"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
}

type ReviewOrderRequest struct {
	StoreID openapi_types.UUID `json:"storeId"`
	Status  string             `json:"status"`
}

type ReviewOrderResponse struct {
	NewStatus string `json:"newStatus"`
}

type ShipperActionRequest struct {
	ShipperID openapi_types.UUID `json:"shipperId"`
}

type AcceptOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type OrderItem struct {
	FoodID       string          `json:"foodId"`
	FoodName     string          `json:"foodName"`
	StoreID      string          `json:"storeId"`
	StoreName    string          `json:"storeName"`
	StoreAddress string          `json:"storeAddress"`
	StorePhone   string          `json:"storePhone"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Address       string          `json:"address"`
	Lat           *float64        `json:"lat"`
	Lng           *float64        `json:"lng"`
	StoreAddress  *string         `json:"storeAddress"`
	StoreLat      *float64        `json:"storeLat"`
	StoreLng      *float64        `json:"storeLng"`
	Status        string          `json:"status"`
	ShipperID     *string         `json:"shipperId"`
	ShipperName   string          `json:"shipperName"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	PaymentMethod string          `json:"paymentMethod"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	CompletedAt   *time.Time      `json:"completedAt"`
	Items         []OrderItem     `json:"items"`
}

type EarningRecord struct {
	OrderID     string          `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Date        time.Time       `json:"date"`
}

type ShipperEarnings struct {
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	TodayEarnings decimal.Decimal `json:"todayEarnings"`
	WeekEarnings  decimal.Decimal `json:"weekEarnings"`
	MonthEarnings decimal.Decimal `json:"monthEarnings"`
	History       []EarningRecord `json:"history"`
}

func toOrder(v queries.OrderView) Order {
	o := Order{
		ID:            v.ID.String(),
		CustomerID:    v.CustomerID.String(),
		CustomerName:  v.CustomerName,
		CustomerPhone: v.CustomerPhone,
		Address:       v.DeliveryAddress,
		Lat:           v.DeliveryLat,
		Lng:           v.DeliveryLng,
		StoreAddress:  v.PickupAddress,
		StoreLat:      v.PickupLat,
		StoreLng:      v.PickupLng,
		Status:        v.Status.String(),
		ShipperName:   v.ShipperName,
		TotalAmount:   v.TotalAmount,
		ShippingFee:   v.ShippingFee,
		PaymentMethod: v.PaymentMethod,
		Note:          v.Note,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		CompletedAt:   v.CompletedAt,
		Items:         make([]OrderItem, 0, len(v.Items)),
	}
	if v.ShipperID != nil {
		id := v.ShipperID.String()
		o.ShipperID = &id
	}
	for _, item := range v.Items {
		o.Items = append(o.Items, OrderItem{
			FoodID:       item.FoodID.String(),
			FoodName:     item.FoodName,
			StoreID:      item.StoreID.String(),
			StoreName:    item.StoreName,
			StoreAddress: item.StoreAddress,
			StorePhone:   item.StorePhone,
			Quantity:     item.Quantity,
			Price:        item.Price,
		})
	}
	return o
}

func toOrders(views []queries.OrderView) []Order {
	out := make([]Order, 0, len(views))
	for _, v := range views {
		out = append(out, toOrder(v))
	}
	return out
}

func toShipperEarnings(e queries.ShipperEarnings) ShipperEarnings {
	out := ShipperEarnings{
		TotalEarnings: e.Total,
		TodayEarnings: e.Today,
		WeekEarnings:  e.Week,
		MonthEarnings: e.Month,
		History:       make([]EarningRecord, 0, len(e.History)),
	}
	for _, h := range e.History {
		out.History = append(out.History, EarningRecord{
			OrderID:     h.OrderID.String(),
			Amount:      h.Amount,
			ShippingFee: h.ShippingFee,
			Date:        h.CompletedAt,
		})
	}
	return out
}
