package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// UpdateOrderAddressCommandHandler changes the delivery address of an
// order on behalf of its owner or an administrator. The aggregate rejects
// the change once the order is delivered or cancelled.
type UpdateOrderAddressCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateOrderAddressCommandHandler creates a handler for address updates.
func NewUpdateOrderAddressCommandHandler(uowFactory OrderUoWFactory) UpdateOrderAddressCommandHandler {
	return UpdateOrderAddressCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the address update command.
func (h UpdateOrderAddressCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderAddressCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if !cmd.Principal().CanAccess(aggregate.OwnerID()) {
		return nil, errs.NewForbiddenError("update order", cmd.Principal().ID())
	}

	if err = aggregate.ChangeAddress(cmd.Address()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
