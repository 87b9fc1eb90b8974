package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand is a shipper claiming a confirmed order.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	shipperID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(orderID, shipperID kernel.UUID) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setShipperID(shipperID),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return cmd, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AcceptOrderCommand) ShipperID() kernel.UUID { return c.shipperID }

func (c *AcceptOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *AcceptOrderCommand) setShipperID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipperId", err)
	}
	c.shipperID = id
	return nil
}
