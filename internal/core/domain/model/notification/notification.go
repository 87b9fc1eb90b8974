// Package notification models the messages sent to customers when their
// order moves forward. A notification is written once; only its delivery
// bookkeeping changes afterwards.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via New constructor")

type Type string

const (
	TypeOrderConfirmed    Type = "order_confirmed"
	TypeOrderRejected     Type = "order_rejected"
	TypeOrderAccepted     Type = "order_accepted"
	TypeDeliveryStarted   Type = "delivery_started"
	TypeDeliveryCompleted Type = "delivery_completed"
)

func (t Type) Validate() error {
	switch t {
	case TypeOrderConfirmed, TypeOrderRejected, TypeOrderAccepted, TypeDeliveryStarted, TypeDeliveryCompleted:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a notification type", string(t)))
	}
}

// RoutingKey is the broker routing key notifications of this type are published with.
func (t Type) RoutingKey() string {
	return "notification." + string(t)
}

// Draft carries what a coordinator knows about a notification before it is stored.
type Draft struct {
	OrderID     kernel.UUID
	RecipientID kernel.UUID
	ActorID     kernel.UUID
	StoreID     *kernel.UUID
	Type        Type
	Message     string
}

type Notification struct {
	id          kernel.UUID
	orderID     kernel.UUID
	recipientID kernel.UUID
	actorID     kernel.UUID
	storeID     *kernel.UUID
	typ         Type
	message     string
	createdAt   time.Time

	isRead    bool
	published bool
	attempts  int
	lastError string

	isConstructed bool
}

func New(id kernel.UUID, draft Draft, now time.Time) (*Notification, error) {
	n := &Notification{createdAt: now, isConstructed: true}

	if err := errors.Join(
		n.setID(id),
		n.setOrderID(draft.OrderID),
		n.setRecipientID(draft.RecipientID),
		n.setActorID(draft.ActorID),
		n.setStoreID(draft.StoreID),
		n.setType(draft.Type),
		n.setMessage(draft.Message),
	); err != nil {
		return nil, err
	}

	return n, nil
}

// Snapshot is the persisted form of a notification.
type Snapshot struct {
	ID        kernel.UUID
	Draft     Draft
	CreatedAt time.Time
	IsRead    bool
	Published bool
	Attempts  int
	LastError string
}

func Restore(s Snapshot) (*Notification, error) {
	n, err := New(s.ID, s.Draft, s.CreatedAt)
	if err != nil {
		return nil, err
	}

	n.isRead = s.IsRead
	n.published = s.Published
	n.attempts = s.Attempts
	n.lastError = s.LastError
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) OrderID() kernel.UUID     { return n.orderID }
func (n *Notification) RecipientID() kernel.UUID { return n.recipientID }
func (n *Notification) ActorID() kernel.UUID     { return n.actorID }
func (n *Notification) Type() Type               { return n.typ }
func (n *Notification) Message() string          { return n.message }
func (n *Notification) CreatedAt() time.Time     { return n.createdAt }
func (n *Notification) IsRead() bool             { return n.isRead }
func (n *Notification) Published() bool          { return n.published }
func (n *Notification) Attempts() int            { return n.attempts }
func (n *Notification) LastError() string        { return n.lastError }

func (n *Notification) StoreID() *kernel.UUID {
	if n.storeID == nil {
		return nil
	}
	id := *n.storeID
	return &id
}

// MarkPublished records a successful hand-off to the broker.
func (n *Notification) MarkPublished() {
	n.published = true
	n.attempts++
	n.lastError = ""
}

// MarkFailed records a failed delivery attempt so the relay can retry it later.
func (n *Notification) MarkFailed(cause error) {
	n.attempts++
	if cause != nil {
		n.lastError = cause.Error()
	}
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	n.orderID = id
	return nil
}

func (n *Notification) setRecipientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipientId", err)
	}
	n.recipientID = id
	return nil
}

func (n *Notification) setActorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actorId", err)
	}
	n.actorID = id
	return nil
}

func (n *Notification) setStoreID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("storeId", err)
	}
	storeID := *id
	n.storeID = &storeID
	return nil
}

func (n *Notification) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	n.typ = t
	return nil
}

func (n *Notification) setMessage(message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}
	n.message = message
	return nil
}
