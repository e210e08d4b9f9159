package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDeleteOrderCommand(42, adminPrincipal(t))
	require.NoError(t, err)

	stored := storedOrder(t, 42, "user-1", order.Cancelled)

	orderRepo := new(OrderRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(OrderUoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, int64(42)).Return(stored, nil).Once(),
		orderRepo.On("Delete", ctx, int64(42)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewDeleteOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_NonAdminForbidden(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDeleteOrderCommand(42, userPrincipal(t, "user-1"))
	require.NoError(t, err)

	factory := new(OrderUoWFactoryMock)

	handler := commands.NewDeleteOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
}

func TestDeleteOrderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDeleteOrderCommand(404, adminPrincipal(t))
	require.NoError(t, err)

	orderRepo := new(OrderRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(OrderUoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, int64(404)).Return(nil, errs.NewObjectNotFoundError("orden_id", int64(404))).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewDeleteOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
