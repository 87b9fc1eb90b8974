package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrStartDeliveryCommandIsNotConstructed = errors.New(
		"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
	)
	ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
		"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
	)
)

// deliveryStep identifies an order and the shipper reporting progress on it.
type deliveryStep struct {
	orderID   kernel.UUID
	shipperID kernel.UUID

	guard guard.ConstructorGuard
}

func newDeliveryStep(orderID, shipperID kernel.UUID) (deliveryStep, error) {
	var errOrder, errShipper error
	if err := orderID.Validate(); err != nil {
		errOrder = errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if err := shipperID.Validate(); err != nil {
		errShipper = errs.NewValueIsRequiredErrorWithCause("shipperId", err)
	}
	if err := errors.Join(errOrder, errShipper); err != nil {
		return deliveryStep{}, err
	}

	return deliveryStep{orderID: orderID, shipperID: shipperID, guard: guard.NewConstructorGuard()}, nil
}

func (s deliveryStep) OrderID() kernel.UUID   { return s.orderID }
func (s deliveryStep) ShipperID() kernel.UUID { return s.shipperID }

// StartDeliveryCommand moves a preparing order to delivering.
type StartDeliveryCommand struct {
	deliveryStep
}

func NewStartDeliveryCommand(orderID, shipperID kernel.UUID) (StartDeliveryCommand, error) {
	step, err := newDeliveryStep(orderID, shipperID)
	if err != nil {
		return StartDeliveryCommand{}, err
	}
	return StartDeliveryCommand{deliveryStep: step}, nil
}

func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

func (c StartDeliveryCommand) action() order.Action {
	return order.ActionStartDelivery
}

// CompleteDeliveryCommand moves a delivering order to completed and books
// the shipper's earning.
type CompleteDeliveryCommand struct {
	deliveryStep
}

func NewCompleteDeliveryCommand(orderID, shipperID kernel.UUID) (CompleteDeliveryCommand, error) {
	step, err := newDeliveryStep(orderID, shipperID)
	if err != nil {
		return CompleteDeliveryCommand{}, err
	}
	return CompleteDeliveryCommand{deliveryStep: step}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) action() order.Action {
	return order.ActionCompleteDelivery
}
