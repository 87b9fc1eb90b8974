package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Actor is the role on whose behalf a transition is requested.
type Actor string

const (
	ActorStore    Actor = "store"
	ActorShipper  Actor = "shipper"
	ActorCustomer Actor = "customer"
)

// Action is what the actor wants to do with the order.
type Action string

const (
	ActionAccept           Action = "accept"
	ActionReject           Action = "reject"
	ActionStartDelivery    Action = "start-delivery"
	ActionCompleteDelivery Action = "complete-delivery"
)

func (a Actor) Validate() error {
	switch a {
	case ActorStore, ActorShipper, ActorCustomer:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%q is not an actor", string(a)))
}

func (a Action) Validate() error {
	switch a {
	case ActionAccept, ActionReject, ActionStartDelivery, ActionCompleteDelivery:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not an action", string(a)))
}
