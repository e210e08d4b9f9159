package order

import (
	"errors"
	"strings"
	"time"

	"orders/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrStatusChangeIsNotConstructed is returned when a StatusChange instance
// was not created through NewStatusChange or RestoreStatusChange.
var ErrStatusChangeIsNotConstructed = errors.New(
	"StatusChange must be created via NewStatusChange or RestoreStatusChange",
)

// StatusChange is one entry in the append-only status audit trail of an
// order. Entries are created exactly once per successful transition and are
// never mutated or deleted; ordered by changedAt they reconstruct a valid
// walk through the transition table.
type StatusChange struct {
	id        uuid.UUID
	orderID   int64
	previous  Status
	next      Status
	reason    string
	changedBy string
	changedAt time.Time

	isConstructed bool
}

// NewStatusChange records an applied transition.
//
// The previous→next edge must exist in the transition table; a record for
// an edge the table does not contain would corrupt the audit trail, so it
// is rejected with an InvalidTransitionError. The reason is optional but
// bounded by MaxReasonLength; changedBy is the id of the principal that
// requested the change.
func NewStatusChange(
	orderID int64,
	previous, next Status,
	reason string,
	changedBy string,
	changedAt time.Time,
) (*StatusChange, error) {
	if orderID <= 0 {
		return nil, errs.NewValueIsRequiredError("orden_id")
	}
	if err := previous.Validate(); err != nil {
		return nil, err
	}
	if !previous.CanTransitionTo(next) {
		return nil, errs.NewInvalidTransitionError(previous.String(), next.String(), previous.AllowedNextStrings())
	}
	if err := ValidateReason(reason, false); err != nil {
		return nil, err
	}
	if strings.TrimSpace(changedBy) == "" {
		return nil, errs.NewValueIsRequiredError("changed_by")
	}

	return &StatusChange{
		id:            uuid.New(),
		orderID:       orderID,
		previous:      previous,
		next:          next,
		reason:        reason,
		changedBy:     changedBy,
		changedAt:     changedAt,
		isConstructed: true,
	}, nil
}

// RestoreStatusChange reconstructs a history entry from persistence.
// Unlike NewStatusChange it does not re-check the edge against the table:
// the trail is the record of what happened, and rejecting old rows after a
// table change would make history unreadable.
func RestoreStatusChange(
	id uuid.UUID,
	orderID int64,
	previous, next Status,
	reason string,
	changedBy string,
	changedAt time.Time,
) (*StatusChange, error) {
	if orderID <= 0 {
		return nil, errs.NewValueIsRequiredError("orden_id")
	}

	return &StatusChange{
		id:            id,
		orderID:       orderID,
		previous:      previous,
		next:          next,
		reason:        reason,
		changedBy:     changedBy,
		changedAt:     changedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the StatusChange was properly constructed.
func (c *StatusChange) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrStatusChangeIsNotConstructed
	}
	return nil
}

// ID returns the unique identifier of the history entry.
func (c *StatusChange) ID() uuid.UUID { return c.id }

// OrderID returns the id of the order the entry belongs to.
func (c *StatusChange) OrderID() int64 { return c.orderID }

// Previous returns the state the order left.
func (c *StatusChange) Previous() Status { return c.previous }

// Next returns the state the order entered.
func (c *StatusChange) Next() Status { return c.next }

// Reason returns the optional free-text reason ("" when absent).
func (c *StatusChange) Reason() string { return c.reason }

// ChangedBy returns the id of the principal that requested the change.
func (c *StatusChange) ChangedBy() string { return c.changedBy }

// ChangedAt returns the server-assigned timestamp of the change.
func (c *StatusChange) ChangedAt() time.Time { return c.changedAt }
