// Package earning defines the shipper's cut of a delivery and the ledger
// entry written when a delivery completes.
package earning

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// ShipperShare is the fraction of the shipping fee paid out to the shipper.
var ShipperShare = decimal.RequireFromString("0.8")

const TypeOrderEarning = "order_earning"

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// ShareOf returns the shipper's earning for a shipping fee.
func ShareOf(shippingFee kernel.Money) kernel.Money {
	return shippingFee.Share(ShipperShare)
}

type Entry struct {
	orderID    kernel.UUID
	shipperID  kernel.UUID
	amount     kernel.Money
	recordedAt time.Time

	isConstructed bool
}

func NewEntry(orderID, shipperID kernel.UUID, shippingFee kernel.Money, now time.Time) (*Entry, error) {
	if err := errors.Join(orderID.Validate(), shipperID.Validate(), shippingFee.Validate()); err != nil {
		return nil, err
	}

	return &Entry{
		orderID:       orderID,
		shipperID:     shipperID,
		amount:        ShareOf(shippingFee),
		recordedAt:    now,
		isConstructed: true,
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) OrderID() kernel.UUID   { return e.orderID }
func (e *Entry) ShipperID() kernel.UUID { return e.shipperID }
func (e *Entry) Amount() kernel.Money   { return e.amount }
func (e *Entry) Type() string           { return TypeOrderEarning }
func (e *Entry) RecordedAt() time.Time  { return e.recordedAt }
