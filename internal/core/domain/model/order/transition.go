package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"
)

// Request is a transition asked for by ActorID acting as Actor.
type Request struct {
	Actor   Actor
	Action  Action
	ActorID kernel.UUID
}

func (r Request) Validate() error {
	if err := errors.Join(r.Actor.Validate(), r.Action.Validate()); err != nil {
		return err
	}
	if err := r.ActorID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(string(r.Actor)+"Id", err)
	}
	return nil
}

// EffectKind names a write or message that must accompany a transition.
type EffectKind int

const (
	EffectCreateShipperOffer EffectKind = iota + 1
	EffectWithdrawShipperOffer
	EffectAssignShipper
	EffectTakeShipperOffer
	EffectRecordEarning
	EffectNotifyCustomer
)

func (k EffectKind) String() string {
	switch k {
	case EffectCreateShipperOffer:
		return "CreateShipperOffer"
	case EffectWithdrawShipperOffer:
		return "WithdrawShipperOffer"
	case EffectAssignShipper:
		return "AssignShipper"
	case EffectTakeShipperOffer:
		return "TakeShipperOffer"
	case EffectRecordEarning:
		return "RecordEarning"
	case EffectNotifyCustomer:
		return "NotifyCustomer"
	default:
		return fmt.Sprintf("Effect(%d)", int(k))
	}
}

type Effect struct {
	Kind         EffectKind
	Notification notification.Type
}

func notifyCustomer(t notification.Type) Effect {
	return Effect{Kind: EffectNotifyCustomer, Notification: t}
}

// Decision is the engine's verdict for an accepted request.
type Decision struct {
	From    Status
	To      Status
	Effects []Effect
}

func (d Decision) Has(kind EffectKind) bool {
	for _, e := range d.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Notifications returns the customer notification types the transition emits.
func (d Decision) Notifications() []notification.Type {
	var types []notification.Type
	for _, e := range d.Effects {
		if e.Kind == EffectNotifyCustomer {
			types = append(types, e.Notification)
		}
	}
	return types
}

// RejectionReason is the stable reason a request was refused.
type RejectionReason string

const (
	ReasonNotFound            RejectionReason = "not_found"
	ReasonWrongActor          RejectionReason = "wrong_actor"
	ReasonInvalidCurrentState RejectionReason = "invalid_current_state"
	ReasonAlreadyAssigned     RejectionReason = "already_assigned"
	ReasonUnauthorized        RejectionReason = "unauthorized"
)

// Rejection is returned by Decide for refused requests. It unwraps to the
// typed error of package errs that matches its reason.
type Rejection struct {
	Reason  RejectionReason
	Current Status
	err     error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("transition rejected (%s): %v", r.Reason, r.err)
}

func (r *Rejection) Unwrap() error {
	return r.err
}

type rule struct {
	from    Status
	actor   Actor
	action  Action
	to      Status
	effects []Effect
}

// getRules is the complete transition table. Anything not listed is refused.
func getRules() []rule {
	return []rule{
		{Pending, ActorStore, ActionAccept, Confirmed, []Effect{
			{Kind: EffectCreateShipperOffer},
			notifyCustomer(notification.TypeOrderConfirmed),
		}},
		{Pending, ActorStore, ActionReject, Cancelled, []Effect{
			notifyCustomer(notification.TypeOrderRejected),
		}},
		{Confirmed, ActorStore, ActionReject, Cancelled, []Effect{
			{Kind: EffectWithdrawShipperOffer},
			notifyCustomer(notification.TypeOrderRejected),
		}},
		{Confirmed, ActorShipper, ActionAccept, Preparing, []Effect{
			{Kind: EffectAssignShipper},
			{Kind: EffectTakeShipperOffer},
			notifyCustomer(notification.TypeOrderAccepted),
		}},
		{Preparing, ActorShipper, ActionStartDelivery, Delivering, []Effect{
			notifyCustomer(notification.TypeDeliveryStarted),
		}},
		{Delivering, ActorShipper, ActionCompleteDelivery, Completed, []Effect{
			{Kind: EffectRecordEarning},
			notifyCustomer(notification.TypeDeliveryCompleted),
		}},
	}
}

// Decide evaluates req against the current state of o without modifying it.
// Actor checks run before state checks, so a store that does not own the
// order or a shipper that is not assigned to it learns nothing about its status.
func Decide(o *Order, req Request) (Decision, error) {
	if o.Validate() != nil {
		return Decision{}, &Rejection{
			Reason: ReasonNotFound,
			err:    errs.NewObjectNotFoundError("order", "unknown"),
		}
	}

	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	candidates := make([]rule, 0, 2)
	for _, r := range getRules() {
		if r.actor == req.Actor && r.action == req.Action {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return Decision{}, &Rejection{
			Reason:  ReasonWrongActor,
			Current: o.status,
			err:     errs.NewUnauthorizedError(req.ActorID, fmt.Sprintf("may not %s orders as %s", req.Action, req.Actor)),
		}
	}

	if rejection := checkActor(o, req); rejection != nil {
		return Decision{}, rejection
	}

	for _, r := range candidates {
		if r.from == o.status {
			effects := make([]Effect, len(r.effects))
			copy(effects, r.effects)
			return Decision{From: o.status, To: r.to, Effects: effects}, nil
		}
	}

	return Decision{}, stateRejection(o, req)
}

func checkActor(o *Order, req Request) *Rejection {
	switch {
	case req.Actor == ActorStore && !o.HasItemsFrom(req.ActorID):
		return &Rejection{
			Reason:  ReasonUnauthorized,
			Current: o.status,
			err:     errs.NewUnauthorizedError(req.ActorID, "does not own any item of order "+o.id.String()),
		}
	case req.Actor == ActorShipper && req.Action != ActionAccept && !o.IsAssignedTo(req.ActorID):
		return &Rejection{
			Reason:  ReasonUnauthorized,
			Current: o.status,
			err:     errs.NewUnauthorizedError(req.ActorID, "is not the shipper assigned to order "+o.id.String()),
		}
	}
	return nil
}

func stateRejection(o *Order, req Request) *Rejection {
	if req.Actor == ActorShipper && req.Action == ActionAccept && o.shipperID != nil {
		return &Rejection{
			Reason:  ReasonAlreadyAssigned,
			Current: o.status,
			err:     errs.NewAlreadyAssignedError(o.id, o.status.String()),
		}
	}

	return &Rejection{
		Reason:  ReasonInvalidCurrentState,
		Current: o.status,
		err:     errs.NewInvalidStateError(describe(req.Action), o.status.String()),
	}
}

func describe(action Action) string {
	switch action {
	case ActionAccept:
		return "accept"
	case ActionReject:
		return "reject"
	case ActionStartDelivery:
		return "start delivery of"
	case ActionCompleteDelivery:
		return "complete delivery of"
	default:
		return string(action)
	}
}
