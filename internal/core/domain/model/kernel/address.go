package kernel

import (
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a free-form street line with optional coordinates.
type Address struct {
	line  string
	point *GeoPoint
	guard guard.ConstructorGuard
}

func NewAddress(line string, point *GeoPoint) (Address, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Address{}, errs.NewValueIsRequiredError("address")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Address{}, err
		}
		cp := *point
		point = &cp
	}

	return Address{line: line, point: point, guard: guard.NewConstructorGuard()}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Line() string {
	return a.line
}

// Point returns a copy of the coordinates, or nil when the address has none.
func (a Address) Point() *GeoPoint {
	if a.point == nil {
		return nil
	}
	cp := *a.point
	return &cp
}
