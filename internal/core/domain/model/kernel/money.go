package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney")

// MoneyScale and MaxMoney match the numeric(12,2) columns amounts are stored in.
const MoneyScale = 2

var MaxMoney = decimal.RequireFromString("9999999999.99")

// Money is a non-negative amount in the marketplace currency. Arithmetic is
// exact; rounding only happens when an amount is rendered.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, MaxMoney.String())
	}
	if amount.GreaterThan(MaxMoney) {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, MaxMoney.String())
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount", fmt.Errorf("%s has more than %d decimal places", amount.String(), MoneyScale),
		)
	}
	return Money{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses a decimal literal such as "15000" or "12.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

// Times multiplies by a non-negative integer factor, such as an item quantity.
func (m Money) Times(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))), guard: guard.NewConstructorGuard()}
}

// Share returns the given fraction of the amount, e.g. the shipper's cut of a
// fee, rounded half-up to whole cents.
func (m Money) Share(fraction decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(fraction).Round(MoneyScale), guard: guard.NewConstructorGuard()}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}
