// Package order contains the Order aggregate of the marketplace and the
// transition engine that decides how an order may move through its lifecycle.
//
// Lifecycle:
//
//	pending -> confirmed -> preparing -> delivering -> completed
//	pending|confirmed -> cancelled
//
// Stores confirm or reject orders that contain their items, any active shipper
// may accept a confirmed order, and only the assigned shipper may start and
// complete its delivery. Completed and cancelled are terminal. Decide is a
// pure function: it never touches storage and can be evaluated repeatedly
// against a freshly locked order.
package order
