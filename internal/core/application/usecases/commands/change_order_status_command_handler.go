package commands

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

// TransitionSummary describes one applied transition for the caller.
type TransitionSummary struct {
	From   order.Status
	To     order.Status
	Reason string
}

// ChangeOrderStatusResult carries the updated order projection plus the
// applied transition back to the HTTP boundary.
type ChangeOrderStatusResult struct {
	Order      *order.Order
	Transition TransitionSummary
}

// ChangeOrderStatusCommandHandler orchestrates direct state transitions.
// Only administrators may invoke it; owners have the narrower cancellation
// flow instead. The order update and the history append run in one
// transaction, and the order write is conditioned on the previously-read
// state so a concurrent change surfaces as an invalid transition rather
// than a lost update.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrForbidden):
//	    // caller is not an administrator
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // table disallows it, or the state changed concurrently
//	case err != nil:
//	    // storage failure
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
}

// NewChangeOrderStatusCommandHandler creates a handler for direct status
// transitions. Requires a UoWFactory spanning orders and their history.
func NewChangeOrderStatusCommandHandler(uowFactory UoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status change command.
// Authorization comes first: non-admin callers are rejected before any
// lookup. The transition itself is validated by the aggregate against the
// table; on success the order row and one history entry are committed
// atomically.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	var result ChangeOrderStatusResult

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	if !cmd.Principal().IsAdmin() {
		return result, errs.NewForbiddenError("change order status", cmd.Principal().ID())
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

	previous := aggregate.Status()
	now := time.Now().UTC()

	if err = aggregate.TransitionTo(cmd.Requested(), cmd.DeliveredAt(), now); err != nil {
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
