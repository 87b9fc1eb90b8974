package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetShipperEarningsQueryIsNotConstructed = errors.New(
	"GetShipperEarningsQuery must be created via NewGetShipperEarningsQuery constructor",
)

// HistoryLimit is the number of most recent completions in ShipperEarnings.History.
const HistoryLimit = 50

type GetShipperEarningsQuery struct {
	shipperID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipperEarningsQuery(shipperID kernel.UUID) (GetShipperEarningsQuery, error) {
	if err := shipperID.Validate(); err != nil {
		return GetShipperEarningsQuery{}, errs.NewValueIsRequiredErrorWithCause("shipperId", err)
	}
	return GetShipperEarningsQuery{shipperID: shipperID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipperEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetShipperEarningsQueryIsNotConstructed)
}

func (q GetShipperEarningsQuery) ShipperID() kernel.UUID {
	return q.shipperID
}

// ShipperEarnings sums the shipper's share of the shipping fee over
// completed orders, bucketed by completion time.
type ShipperEarnings struct {
	Total   decimal.Decimal
	Today   decimal.Decimal
	Week    decimal.Decimal
	Month   decimal.Decimal
	History []EarningRecord
}

type EarningRecord struct {
	OrderID     kernel.UUID
	CompletedAt time.Time
	ShippingFee decimal.Decimal
	Amount      decimal.Decimal
}

// Periods are the start instants of the current day, week and month.
type Periods struct {
	Day   time.Time
	Week  time.Time
	Month time.Time
}

// PeriodsAt returns the periods containing now, in now's location. Weeks
// start on Sunday.
func PeriodsAt(now time.Time) Periods {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Periods{
		Day:   day,
		Week:  day.AddDate(0, 0, -int(day.Weekday())),
		Month: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
	}
}
