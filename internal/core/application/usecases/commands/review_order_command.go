package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReviewOrderCommandIsNotConstructed = errors.New(
	"ReviewOrderCommand must be created via NewReviewOrderCommand constructor",
)

// ReviewDecision is a store's answer to a new order.
type ReviewDecision string

const (
	ReviewAccepted ReviewDecision = "accepted"
	ReviewRejected ReviewDecision = "rejected"
)

// ReviewOrderCommand carries a store's decision on an order containing its items.
type ReviewOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	storeID  kernel.UUID
	decision ReviewDecision

	guard guard.ConstructorGuard
}

func NewReviewOrderCommand(orderID, storeID kernel.UUID, decision ReviewDecision) (ReviewOrderCommand, error) {
	cmd := ReviewOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStoreID(storeID),
		cmd.setDecision(decision),
	); err != nil {
		return ReviewOrderCommand{}, err
	}

	return cmd, nil
}

func (c ReviewOrderCommand) Validate() error {
	return c.guard.Validate(ErrReviewOrderCommandIsNotConstructed)
}

func (c ReviewOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c ReviewOrderCommand) StoreID() kernel.UUID     { return c.storeID }
func (c ReviewOrderCommand) Decision() ReviewDecision { return c.decision }

func (c ReviewOrderCommand) action() order.Action {
	if c.decision == ReviewAccepted {
		return order.ActionAccept
	}
	return order.ActionReject
}

func (c *ReviewOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *ReviewOrderCommand) setStoreID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("storeId", err)
	}
	c.storeID = id
	return nil
}

func (c *ReviewOrderCommand) setDecision(decision ReviewDecision) error {
	if decision != ReviewAccepted && decision != ReviewRejected {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q must be %q or %q", string(decision), ReviewAccepted, ReviewRejected))
	}
	c.decision = decision
	return nil
}
