package order

import (
	"fmt"

	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	Pending ──> Processing ──> Shipped ──> Delivered
//	   │             │
//	   └──────┬──────┘
//	          v
//	      Cancelled
//
// Delivered and Cancelled are terminal: no outgoing transitions exist.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created and paid.
	Pending

	// Processing indicates the order has been accepted and is being prepared.
	Processing

	// Shipped indicates the order has left the warehouse.
	Shipped

	// Delivered indicates the order reached the customer.
	// This is a final state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was cancelled before shipping.
	// This is a final state with no further transitions allowed.
	Cancelled
)

// transitions is the fixed mapping from each state to its permitted
// successor states. It is built once at package initialization and is
// read-only afterwards, so it is shared across requests without locking.
var transitions = map[Status][]Status{
	Pending:    {Processing, Cancelled},
	Processing: {Shipped, Cancelled},
	Shipped:    {Delivered},
	Delivered:  {},
	Cancelled:  {},
}

// cancellableFrom is the precomputed set of states from which Cancelled is
// reachable, derived from the transition table at initialization.
var cancellableFrom = func() []Status {
	states := make([]Status, 0, 2)
	for _, s := range AllStatuses() {
		for _, next := range transitions[s] {
			if next == Cancelled {
				states = append(states, s)
			}
		}
	}
	return states
}()

// getStatusStrings returns a map of Status values to their string
// representations. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation and parsing.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// AllStatuses returns the five valid statuses in the fixed severity order
// pending < processing < shipped < delivered < cancelled. Reports and
// statistics group by this order, never alphabetically.
func AllStatuses() []Status {
	return []Status{Pending, Processing, Shipped, Delivered, Cancelled}
}

// CancellableStatuses returns the states from which cancellation is
// reachable according to the transition table (currently pending and
// processing).
func CancellableStatuses() []Status {
	out := make([]Status, len(cancellableFrom))
	copy(out, cancellableFrom)
	return out
}

// ParseStatus converts a persisted or wire-level string into a Status.
//
// Returns:
//   - the matching Status for one of the five valid names
//   - a ValueIsInvalidError for anything else, including "unknown"
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("estado", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Processing, Shipped, Delivered, Cancelled.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name of the status as persisted and exposed
// on the wire ("pending", "processing", ...). Invalid values render as
// "unknown". Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.Validate() == nil
}

// AllowedNext returns a copy of the permitted successor states for this
// status. Terminal and invalid statuses return an empty slice.
func (s Status) AllowedNext() []Status {
	allowed := transitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// AllowedNextStrings returns the permitted successor states as strings,
// in transition-table order. Used to populate InvalidTransitionError so
// callers can self-correct without re-querying.
func (s Status) AllowedNextStrings() []string {
	allowed := transitions[s]
	out := make([]string, len(allowed))
	for i, next := range allowed {
		out[i] = next.String()
	}
	return out
}

// CanTransitionTo reports whether the transition table permits moving from
// this status to the requested one.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo validates the requested transition against the table.
//
// Returns:
//   - (to, nil) when the transition is permitted
//   - (Unknown, *errs.InvalidTransitionError) otherwise, carrying the
//     current state and its legal successor set
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(to) {
		return Unknown, errs.NewInvalidTransitionError(s.String(), to.String(), s.AllowedNextStrings())
	}
	return to, nil
}
