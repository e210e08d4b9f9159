package commands

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents an administrative request to move an
// order into a new lifecycle state. The requested transition is validated
// against the transition table by the handler; the command only guarantees
// the inputs are well-formed.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(42, order.Processing, "stock confirmed", nil, principal)
//	if err != nil {
//	    return fmt.Errorf("invalid status change request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID     int64
	requested   order.Status
	reason      string
	deliveredAt *time.Time
	principal   auth.Principal

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a validated status change command.
// deliveredAt is optional and only meaningful for transitions into
// delivered; when nil the handler uses the server clock.
func NewChangeOrderStatusCommand(
	orderID int64,
	requested order.Status,
	reason string,
	deliveredAt *time.Time,
	principal auth.Principal,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequested(requested),
		cmd.setReason(reason),
		cmd.setPrincipal(principal),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	cmd.deliveredAt = deliveredAt

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the id of the order to transition.
func (c ChangeOrderStatusCommand) OrderID() int64 {
	return c.orderID
}

// Requested returns the target status.
func (c ChangeOrderStatusCommand) Requested() order.Status {
	return c.requested
}

// Reason returns the optional free-text reason ("" when absent).
func (c ChangeOrderStatusCommand) Reason() string {
	return c.reason
}

// DeliveredAt returns the optional caller-supplied delivery timestamp.
func (c ChangeOrderStatusCommand) DeliveredAt() *time.Time {
	return c.deliveredAt
}

// Principal returns the authenticated caller.
func (c ChangeOrderStatusCommand) Principal() auth.Principal {
	return c.principal
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orden_id",
			fmt.Errorf("%d is not a positive order id", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setRequested(requested order.Status) error {
	if err := requested.Validate(); err != nil {
		return err
	}
	c.requested = requested
	return nil
}

func (c *ChangeOrderStatusCommand) setReason(reason string) error {
	if err := order.ValidateReason(reason, false); err != nil {
		return err
	}
	c.reason = reason
	return nil
}

func (c *ChangeOrderStatusCommand) setPrincipal(principal auth.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	c.principal = principal
	return nil
}
