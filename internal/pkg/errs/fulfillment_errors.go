package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState           = errors.New("invalid state")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAlreadyAssigned        = errors.New("already assigned")
	ErrPersistence            = errors.New("persistence error")
	ErrNotificationFailed     = errors.New("notification failure")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// InvalidStateError reports a transition that is not legal from the current status.
// Current is always filled so clients can see what the order actually is.
type InvalidStateError struct {
	Action  string
	Current string
	Cause   error
}

func NewInvalidStateError(action, current string) *InvalidStateError {
	return &InvalidStateError{Action: action, Current: current}
}

func NewInvalidStateErrorWithCause(action, current string, cause error) *InvalidStateError {
	return &InvalidStateError{Action: action, Current: current, Cause: cause}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s order, current status: %s", ErrInvalidState, e.Action, e.Current)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// UnauthorizedError reports an actor that may not perform the requested action.
type UnauthorizedError struct {
	ActorID any
	Reason  string
}

func NewUnauthorizedError(actorID any, reason string) *UnauthorizedError {
	return &UnauthorizedError{ActorID: actorID, Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: actor %s %s", ErrUnauthorized, e.ActorID, e.Reason)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// AlreadyAssignedError is returned to the shipper that lost the race for an order.
type AlreadyAssignedError struct {
	OrderID any
	Current string
}

func NewAlreadyAssignedError(orderID any, current string) *AlreadyAssignedError {
	return &AlreadyAssignedError{OrderID: orderID, Current: current}
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: order %s is taken by another shipper, current status: %s",
		ErrAlreadyAssigned, e.OrderID, e.Current)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

// PersistenceError wraps a storage or transaction failure. The transaction
// that produced it has been rolled back.
type PersistenceError struct {
	Op    string
	Cause error
}

func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPersistence, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPersistence, e.Op)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Cause}
}

// NotificationError reports a notification that could not be stored or delivered.
// It never invalidates the order transition that triggered it.
type NotificationError struct {
	Type  string
	Cause error
}

func NewNotificationError(notificationType string, cause error) *NotificationError {
	return &NotificationError{Type: notificationType, Cause: cause}
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s: %s (cause: %v)", ErrNotificationFailed, e.Type, e.Cause)
}

func (e *NotificationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNotificationFailed}
	}
	return []error{ErrNotificationFailed, e.Cause}
}
