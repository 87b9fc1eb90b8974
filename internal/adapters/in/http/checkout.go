package http

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// checkout converts the request into the domain checkout. All field errors
// are reported together.
func (r PlaceOrderRequest) checkout() (order.Checkout, error) {
	var problems []error

	customerID, err := kernel.UUIDFromRaw(r.CustomerID)
	if err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("customerId", err))
	}

	delivery, err := address(r.Address, r.Lat, r.Lng)
	if err != nil {
		problems = append(problems, err)
	}

	var pickup *kernel.Address
	if r.StoreAddress != nil && strings.TrimSpace(*r.StoreAddress) != "" {
		a, err := address(*r.StoreAddress, r.StoreLat, r.StoreLng)
		if err != nil {
			problems = append(problems, err)
		} else {
			pickup = &a
		}
	}

	items := make([]order.Item, 0, len(r.Items))
	for i, line := range r.Items {
		item, err := line.item()
		if err != nil {
			problems = append(problems, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(r.TotalAmount)
	if err != nil {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("totalAmount", err))
	}

	fee := kernel.ZeroMoney()
	if r.ShippingFee != nil {
		if fee, err = kernel.NewMoney(*r.ShippingFee); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("shippingFee", err))
		}
	}

	if err = errors.Join(problems...); err != nil {
		return order.Checkout{}, err
	}

	return order.Checkout{
		CustomerID:    customerID,
		Delivery:      delivery,
		Pickup:        pickup,
		Items:         items,
		TotalAmount:   total,
		ShippingFee:   fee,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
	}, nil
}

func (l PlaceOrderItem) item() (order.Item, error) {
	foodID, err := kernel.UUIDFromRaw(l.FoodID)
	if err != nil {
		return order.Item{}, errs.NewValueIsRequiredErrorWithCause("foodId", err)
	}
	storeID, err := kernel.UUIDFromRaw(l.StoreID)
	if err != nil {
		return order.Item{}, errs.NewValueIsRequiredErrorWithCause("storeId", err)
	}
	price, err := kernel.NewMoney(l.Price)
	if err != nil {
		return order.Item{}, errs.NewValueIsInvalidErrorWithCause("price", err)
	}
	return order.NewItem(foodID, storeID, l.Quantity, price)
}

func address(line string, lat, lng *float64) (kernel.Address, error) {
	point, err := kernel.NewOptionalGeoPoint(lat, lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(line, point)
}
