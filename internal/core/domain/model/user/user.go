// Package user is the coordinator's view of a marketplace account: who it is,
// which role it holds and whether it may currently work.
package user

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var ErrUserIsNotConstructed = errors.New("User must be created via RestoreUser constructor")

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleShipper Role = "shipper"
)

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleUser, RoleShipper:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a role", string(r)))
}

// Status is the account review state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an account status", string(s)))
}

type User struct {
	id       kernel.UUID
	fullName string
	role     Role
	status   Status
	active   bool

	isConstructed bool
}

// RestoreUser rebuilds a user loaded from the directory.
func RestoreUser(id kernel.UUID, fullName string, role Role, status Status, active bool) (*User, error) {
	if err := errors.Join(id.Validate(), role.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &User{
		id:            id,
		fullName:      strings.TrimSpace(fullName),
		role:          role,
		status:        status,
		active:        active,
		isConstructed: true,
	}, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID  { return u.id }
func (u *User) FullName() string { return u.fullName }
func (u *User) Role() Role       { return u.role }
func (u *User) Status() Status   { return u.status }
func (u *User) Active() bool     { return u.active }

// CanDeliver reports why the user may not take orders, or nil.
func (u *User) CanDeliver() error {
	if !u.active {
		return errs.NewUnauthorizedError(u.id, "is not active")
	}
	if u.status == StatusRejected {
		return errs.NewUnauthorizedError(u.id, "has been rejected")
	}
	return nil
}

// PromoteToShipper grants the shipper role to a regular user on their first
// accepted order. It returns true when the role actually changed. Admins keep
// their role and may still deliver.
func (u *User) PromoteToShipper() bool {
	if u.role != RoleUser {
		return false
	}
	u.role = RoleShipper
	return true
}
