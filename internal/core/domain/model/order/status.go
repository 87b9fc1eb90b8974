package order

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle position of an order.
type Status int

const (
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	Delivering
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Preparing:  "preparing",
		Delivering: "delivering",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// getTransitions lists the statuses reachable from each status in one step.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Confirmed, Cancelled},
		Confirmed:  {Preparing, Cancelled},
		Preparing:  {Delivering},
		Delivering: {Completed},
	}
}

// ParseStatus accepts the lowercase names used on the wire.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// HasShipper reports whether an order in this status must carry a shipper.
func (s Status) HasShipper() bool {
	return s == Preparing || s == Delivering || s == Completed
}

// ValidateCanHaveShipper enforces that a shipper is set exactly in the
// preparing, delivering and completed statuses.
func (s Status) ValidateCanHaveShipper(shipper bool) error {
	if shipper && !s.HasShipper() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a shipper", s),
		)
	}

	if !shipper && s.HasShipper() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no shipper", s),
		)
	}

	return nil
}

// CanTransitionTo reports whether next is one step forward from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range getTransitions()[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the lifecycle graph allows it.
func (s Status) TransitionTo(next Status) (Status, error) {
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewInvalidStateErrorWithCause(
			"move", s.String(),
			fmt.Errorf("%s does not lead to %s", s, next),
		)
	}
	return next, nil
}
