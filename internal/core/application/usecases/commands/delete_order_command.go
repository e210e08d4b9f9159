package commands

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/auth"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrDeleteOrderCommandIsNotConstructed = errors.New(
	"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
)

// DeleteOrderCommand represents an administrative request to remove an
// order together with its items and status history.
type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   int64
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewDeleteOrderCommand creates a validated deletion command.
func NewDeleteOrderCommand(orderID int64, principal auth.Principal) (DeleteOrderCommand, error) {
	cmd := DeleteOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPrincipal(principal),
	); err != nil {
		return DeleteOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

// OrderID returns the id of the order to delete.
func (c DeleteOrderCommand) OrderID() int64 {
	return c.orderID
}

// Principal returns the authenticated caller.
func (c DeleteOrderCommand) Principal() auth.Principal {
	return c.principal
}

func (c *DeleteOrderCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orden_id",
			fmt.Errorf("%d is not a positive order id", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *DeleteOrderCommand) setPrincipal(principal auth.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	c.principal = principal
	return nil
}
