package queries

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter selects which orders ListOrdersQuery returns.
type OrderFilter string

const (
	// FilterPending lists orders waiting for a store review.
	FilterPending OrderFilter = "pending"
	// FilterConfirmed lists orders open for shippers.
	FilterConfirmed OrderFilter = "confirmed"
	// FilterStore lists every order containing at least one item of a store.
	FilterStore OrderFilter = "store"
	// FilterShipperActive lists orders a shipper is preparing or delivering.
	FilterShipperActive OrderFilter = "shipper_active"
	// FilterCustomer lists every order placed by a customer.
	FilterCustomer OrderFilter = "customer"
)

func (f OrderFilter) needsSubject() bool {
	return f == FilterStore || f == FilterShipperActive || f == FilterCustomer
}

// ListOrdersQuery returns order projections, newest first.
//
//	query, err := NewListOrdersQuery(FilterShipperActive, shipperID)
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter  OrderFilter
	subject kernel.UUID

	guard guard.ConstructorGuard
}

// NewListOrdersQuery builds a query for filter. subject is the store, shipper
// or customer the filter refers to and is ignored by the status filters.
func NewListOrdersQuery(filter OrderFilter, subject kernel.UUID) (ListOrdersQuery, error) {
	switch filter {
	case FilterPending, FilterConfirmed:
		return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
	case FilterStore, FilterShipperActive, FilterCustomer:
		if err := subject.Validate(); err != nil {
			return ListOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause(string(filter)+"Id", err)
		}
		return ListOrdersQuery{filter: filter, subject: subject, guard: guard.NewConstructorGuard()}, nil
	default:
		return ListOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"filter", fmt.Errorf("%q is not an order filter", string(filter)),
		)
	}
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() OrderFilter { return q.filter }

// Subject returns the filter's store, shipper or customer ID.
func (q ListOrdersQuery) Subject() (kernel.UUID, bool) {
	return q.subject, q.filter.needsSubject()
}
