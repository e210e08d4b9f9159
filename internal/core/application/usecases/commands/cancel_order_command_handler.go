package commands

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order on behalf of its owner or an
// administrator. Cancellation is just the transition into cancelled, so it
// shares the transition table, the conditional write and the audit append
// with the generic status change. Authorization differs: the order is
// loaded first and ownership is checked against it, so a caller probing
// someone else's order gets a forbidden error, not a not-found one.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
// Requires a UoWFactory spanning orders and their history.
func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
func (h CancelOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CancelOrderCommand,
) (ChangeOrderStatusResult, error) {
	var result ChangeOrderStatusResult

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	historyRepo := uow.StatusHistoryRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return result, err
	}

	if !cmd.Principal().CanAccess(aggregate.OwnerID()) {
		return result, errs.NewForbiddenError("cancel order", cmd.Principal().ID())
	}

	previous := aggregate.Status()
	now := time.Now().UTC()

	if err = aggregate.Cancel(now); err != nil {
		return result, err
	}

	if err = orderRepo.UpdateStatus(ctx, aggregate, previous); err != nil {
		return result, err
	}

	change, err := order.NewStatusChange(
		aggregate.ID(), previous, aggregate.Status(), cmd.Reason(), cmd.Principal().ID(), now,
	)
	if err != nil {
		return result, err
	}

	if err = historyRepo.Append(ctx, change); err != nil {
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	return ChangeOrderStatusResult{
		Order: aggregate,
		Transition: TransitionSummary{
			From:   previous,
			To:     aggregate.Status(),
			Reason: cmd.Reason(),
		},
	}, nil
}
