package errs

import "errors"

// Kind is the stable error classification exposed to API clients.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindUnauthorized Kind = "unauthorized"
	KindAlreadyTaken Kind = "already_assigned"
	KindPersistence  Kind = "persistence_error"
	KindNotification Kind = "notification_failure"
)

// KindOf classifies err. Errors that match no domain sentinel are storage or
// infrastructure failures and are reported as KindPersistence.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConcurrentModification):
		return KindInvalidState
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrAlreadyAssigned):
		return KindAlreadyTaken
	case errors.Is(err, ErrNotificationFailed):
		return KindNotification
	default:
		return KindPersistence
	}
}

// CurrentStatus extracts the order status carried by state related errors.
func CurrentStatus(err error) (string, bool) {
	var invalid *InvalidStateError
	if errors.As(err, &invalid) {
		return invalid.Current, true
	}

	var taken *AlreadyAssignedError
	if errors.As(err, &taken) {
		return taken.Current, true
	}

	return "", false
}
