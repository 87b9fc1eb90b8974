package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Checkout is everything a customer submits when placing an order.
type Checkout struct {
	CustomerID    kernel.UUID
	Delivery      kernel.Address
	Pickup        *kernel.Address
	Items         []Item
	TotalAmount   kernel.Money
	ShippingFee   kernel.Money
	PaymentMethod string
	Note          string
}

// Order is the aggregate root of the fulfillment lifecycle.
type Order struct {
	id            kernel.UUID
	customerID    kernel.UUID
	delivery      kernel.Address
	pickup        *kernel.Address
	items         []Item
	totalAmount   kernel.Money
	shippingFee   kernel.Money
	paymentMethod string
	note          string

	status    Status
	shipperID *kernel.UUID

	createdAt   time.Time
	updatedAt   time.Time
	completedAt *time.Time

	isConstructed bool
}

// NewOrder creates a pending order. The declared total must equal the sum of
// the item subtotals.
func NewOrder(id kernel.UUID, checkout Checkout, now time.Time) (*Order, error) {
	order := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(checkout.CustomerID),
		order.setDelivery(checkout.Delivery),
		order.setPickup(checkout.Pickup),
		order.setItems(checkout.Items),
		order.setShippingFee(checkout.ShippingFee),
		order.setPaymentMethod(checkout.PaymentMethod),
	); err != nil {
		return nil, err
	}

	if err := order.setTotalAmount(checkout.TotalAmount); err != nil {
		return nil, err
	}

	order.note = strings.TrimSpace(checkout.Note)
	return order, nil
}

// Snapshot is the persisted state of an order.
type Snapshot struct {
	ID          kernel.UUID
	Checkout    Checkout
	Status      Status
	ShipperID   *kernel.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// RestoreOrder rebuilds an order from storage. Unlike NewOrder it accepts any
// status, but still requires the shipper to match the status.
func RestoreOrder(s Snapshot) (*Order, error) {
	order := &Order{
		status:        s.Status,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		note:          s.Checkout.Note,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(s.ID),
		order.setCustomerID(s.Checkout.CustomerID),
		order.setDelivery(s.Checkout.Delivery),
		order.setPickup(s.Checkout.Pickup),
		order.setShippingFee(s.Checkout.ShippingFee),
		s.Status.Validate(),
		s.Status.ValidateCanHaveShipper(s.ShipperID != nil),
	); err != nil {
		return nil, err
	}

	if err := s.Checkout.TotalAmount.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("totalAmount", err)
	}
	order.totalAmount = s.Checkout.TotalAmount
	order.paymentMethod = s.Checkout.PaymentMethod

	order.items = make([]Item, 0, len(s.Checkout.Items))
	for _, item := range s.Checkout.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		order.items = append(order.items, item)
	}

	if s.ShipperID != nil {
		if err := s.ShipperID.Validate(); err != nil {
			return nil, err
		}
		shipperID := *s.ShipperID
		order.shipperID = &shipperID
	}

	if s.CompletedAt != nil {
		completedAt := *s.CompletedAt
		order.completedAt = &completedAt
	}

	return order, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) CustomerID() kernel.UUID   { return o.customerID }
func (o *Order) Delivery() kernel.Address  { return o.delivery }
func (o *Order) TotalAmount() kernel.Money { return o.totalAmount }
func (o *Order) ShippingFee() kernel.Money { return o.shippingFee }
func (o *Order) PaymentMethod() string     { return o.paymentMethod }
func (o *Order) Note() string              { return o.note }
func (o *Order) Status() Status            { return o.status }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }

func (o *Order) Pickup() *kernel.Address {
	if o.pickup == nil {
		return nil
	}
	pickup := *o.pickup
	return &pickup
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Shipper returns the assigned shipper, or nil before acceptance.
func (o *Order) Shipper() *kernel.UUID {
	if o.shipperID == nil {
		return nil
	}
	id := *o.shipperID
	return &id
}

func (o *Order) CompletedAt() *time.Time {
	if o.completedAt == nil {
		return nil
	}
	at := *o.completedAt
	return &at
}

// StoreIDs lists the distinct stores whose food is in the order, in item order.
func (o *Order) StoreIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(o.items))
	ids := make([]kernel.UUID, 0, len(o.items))
	for _, item := range o.items {
		if _, ok := seen[item.StoreID()]; ok {
			continue
		}
		seen[item.StoreID()] = struct{}{}
		ids = append(ids, item.StoreID())
	}
	return ids
}

// HasItemsFrom reports whether the store owns at least one order line.
func (o *Order) HasItemsFrom(storeID kernel.UUID) bool {
	for _, item := range o.items {
		if item.StoreID().IsEqual(storeID) {
			return true
		}
	}
	return false
}

// IsAssignedTo reports whether shipperID is the order's shipper.
func (o *Order) IsAssignedTo(shipperID kernel.UUID) bool {
	return o.shipperID != nil && o.shipperID.IsEqual(shipperID)
}

// Transition asks the engine for a decision and applies it to the order.
// The returned decision lists the side effects the caller must carry out in
// the same transaction.
func (o *Order) Transition(req Request, now time.Time) (Decision, error) {
	decision, err := Decide(o, req)
	if err != nil {
		return Decision{}, err
	}

	next, err := o.status.TransitionTo(decision.To)
	if err != nil {
		return Decision{}, err
	}

	shipperID := o.shipperID
	if decision.Has(EffectAssignShipper) {
		id := req.ActorID
		shipperID = &id
	}
	if err = next.ValidateCanHaveShipper(shipperID != nil); err != nil {
		return Decision{}, err
	}

	o.status = next
	o.shipperID = shipperID
	o.updatedAt = now
	if next == Completed {
		completedAt := now
		o.completedAt = &completedAt
	}

	return decision, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setDelivery(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("address", err)
	}
	o.delivery = address
	return nil
}

func (o *Order) setPickup(address *kernel.Address) error {
	if address == nil {
		return nil
	}
	if err := address.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("storeAddress", err)
	}
	pickup := *address
	o.pickup = &pickup
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	validated := make([]Item, 0, len(items))
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", idx), err)
		}
		validated = append(validated, item)
	}

	o.items = validated
	return nil
}

func (o *Order) setShippingFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shippingFee", err)
	}
	o.shippingFee = fee
	return nil
}

func (o *Order) setPaymentMethod(method string) error {
	method = strings.TrimSpace(method)
	if method == "" {
		return errs.NewValueIsRequiredError("paymentMethod")
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setTotalAmount(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("totalAmount", err)
	}

	sum := kernel.ZeroMoney()
	for _, item := range o.items {
		sum = sum.Add(item.Subtotal())
	}

	if !sum.IsEqual(total) {
		return errs.NewValueIsInvalidErrorWithCause(
			"totalAmount",
			fmt.Errorf("%s does not match the items sum %s", total, sum),
		)
	}

	o.totalAmount = total
	return nil
}
