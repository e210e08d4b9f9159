package commands

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/auth"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrUpdateOrderAddressCommandIsNotConstructed = errors.New(
	"UpdateOrderAddressCommand must be created via NewUpdateOrderAddressCommand constructor",
)

// UpdateOrderAddressCommand represents a request to change the delivery
// address of an order that has not reached a terminal state. The status is
// deliberately not part of this command: state only moves through the
// transition operations.
type UpdateOrderAddressCommand struct { //nolint:recvcheck //using for validation
	orderID   int64
	address   string
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewUpdateOrderAddressCommand creates a validated address update command.
func NewUpdateOrderAddressCommand(
	orderID int64,
	address string,
	principal auth.Principal,
) (UpdateOrderAddressCommand, error) {
	cmd := UpdateOrderAddressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAddress(address),
		cmd.setPrincipal(principal),
	); err != nil {
		return UpdateOrderAddressCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderAddressCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderAddressCommandIsNotConstructed)
}

// OrderID returns the id of the order to update.
func (c UpdateOrderAddressCommand) OrderID() int64 {
	return c.orderID
}

// Address returns the new delivery address.
func (c UpdateOrderAddressCommand) Address() string {
	return c.address
}

// Principal returns the authenticated caller.
func (c UpdateOrderAddressCommand) Principal() auth.Principal {
	return c.principal
}

func (c *UpdateOrderAddressCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orden_id",
			fmt.Errorf("%d is not a positive order id", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderAddressCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("direccion")
	}
	c.address = address
	return nil
}

func (c *UpdateOrderAddressCommand) setPrincipal(principal auth.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	c.principal = principal
	return nil
}
