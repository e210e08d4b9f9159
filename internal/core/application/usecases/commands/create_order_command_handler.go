package commands

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// CreateOrderCommandHandler registers a newly paid order in pending state.
// A non-admin caller may only create orders for themselves; administrators
// may create on behalf of any user. The order row and its items are
// persisted in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command. The payment timestamp is
// the server clock; the total is derived from the item subtotals inside
// the aggregate constructor.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !cmd.Principal().CanAccess(cmd.OwnerID()) {
		return nil, errs.NewForbiddenError("create order for another user", cmd.Principal().ID())
	}

	aggregate, err := order.NewOrder(
		cmd.OwnerID(), cmd.Email(), cmd.Address(), cmd.FullName(), cmd.Items(), time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
