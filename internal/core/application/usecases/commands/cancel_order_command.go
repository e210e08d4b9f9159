package commands

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel an order. Unlike the
// generic status change it is available to the order's owner, and the
// reason is mandatory: cancellations are disputed often enough that the
// audit trail must say why.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   int64
	reason    string
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a validated cancellation command.
func NewCancelOrderCommand(
	orderID int64,
	reason string,
	principal auth.Principal,
) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setPrincipal(principal),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the id of the order to cancel.
func (c CancelOrderCommand) OrderID() int64 {
	return c.orderID
}

// Reason returns the mandatory cancellation reason.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}

// Principal returns the authenticated caller.
func (c CancelOrderCommand) Principal() auth.Principal {
	return c.principal
}

func (c *CancelOrderCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orden_id",
			fmt.Errorf("%d is not a positive order id", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setReason(reason string) error {
	if err := order.ValidateReason(reason, true); err != nil {
		return err
	}
	c.reason = reason
	return nil
}

func (c *CancelOrderCommand) setPrincipal(principal auth.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	c.principal = principal
	return nil
}
