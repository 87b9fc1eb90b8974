package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand is a customer's checkout. The caller chooses the order ID
// so it can answer the request without reading the order back.
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), checkout)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	checkout order.Checkout

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand checks the identifiers and that the checkout has items.
// Amount and item rules are enforced when the order is built.
func NewPlaceOrderCommand(orderID kernel.UUID, checkout order.Checkout) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCheckout(checkout),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Checkout() order.Checkout {
	return c.checkout
}

func (c *PlaceOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *PlaceOrderCommand) setCheckout(checkout order.Checkout) error {
	if err := checkout.CustomerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	if len(checkout.Items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.checkout = checkout
	return nil
}
