// Package errs provides the typed errors shared by the marketplace core.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound) used with errors.Is
//   - a struct carrying the details of the failure
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// On top of the value errors the package defines the fulfillment taxonomy
// (invalid state, unauthorized, already assigned, persistence and
// notification failures). KindOf maps any error to the stable kind string
// that is returned to API clients.
package errs
