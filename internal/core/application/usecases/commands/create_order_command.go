package commands

import (
	"errors"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a newly paid order.
// Item value objects are constructed at the boundary, so by the time the
// command exists every line is already validated; the command adds the
// purchaser identity and contact details.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	ownerID   string
	email     string
	address   string
	fullName  string
	items     []order.Item
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated order creation command.
func NewCreateOrderCommand(
	ownerID, email, address, fullName string,
	items []order.Item,
	principal auth.Principal,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOwnerID(ownerID),
		cmd.setEmail(email),
		cmd.setAddress(address),
		cmd.setFullName(fullName),
		cmd.setItems(items),
		cmd.setPrincipal(principal),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OwnerID returns the id of the user the order belongs to.
func (c CreateOrderCommand) OwnerID() string {
	return c.ownerID
}

// Email returns the purchaser's contact email.
func (c CreateOrderCommand) Email() string {
	return c.email
}

// Address returns the delivery address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// FullName returns the purchaser's full name.
func (c CreateOrderCommand) FullName() string {
	return c.fullName
}

// Items returns the order lines.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// Principal returns the authenticated caller.
func (c CreateOrderCommand) Principal() auth.Principal {
	return c.principal
}

func (c *CreateOrderCommand) setOwnerID(ownerID string) error {
	if ownerID == "" {
		return errs.NewValueIsRequiredError("user_id")
	}
	c.ownerID = ownerID
	return nil
}

func (c *CreateOrderCommand) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("correo_usuario")
	}
	c.email = email
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("direccion")
	}
	c.address = address
	return nil
}

func (c *CreateOrderCommand) setFullName(fullName string) error {
	if fullName == "" {
		return errs.NewValueIsRequiredError("nombre_completo")
	}
	c.fullName = fullName
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("productos")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPrincipal(principal auth.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}
	c.principal = principal
	return nil
}
