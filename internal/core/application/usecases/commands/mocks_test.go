package commands_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderRepoMock) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *OrderRepoMock) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type HistoryRepoMock struct{ mock.Mock }

func (m *HistoryRepoMock) Append(ctx context.Context, entry *order.StatusChange) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *HistoryRepoMock) ListByOrder(ctx context.Context, orderID int64) ([]*order.StatusChange, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.StatusChange), args.Error(1)
}

// UnitOfWorkMock satisfies both commands.UoW and commands.OrderUoW.
type UnitOfWorkMock struct{ mock.Mock }

func (m *UnitOfWorkMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *UnitOfWorkMock) StatusHistoryRepository() ports.StatusHistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusHistoryRepository)
}

type UoWFactoryMock struct{ mock.Mock }

func (m *UoWFactoryMock) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type OrderUoWFactoryMock struct{ mock.Mock }

func (m *OrderUoWFactoryMock) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

func adminPrincipal(t *testing.T) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal("admin-1", auth.RoleAdmin)
	require.NoError(t, err)
	return p
}

func userPrincipal(t *testing.T, id string) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(id, "CLIENTE")
	require.NoError(t, err)
	return p
}

func testItem(t *testing.T) order.Item {
	t.Helper()
	item, err := order.NewItem(
		7, "Laptop Pro 14", decimal.NewFromInt(1200), 10, "Lenner", "LP-14", 2, "laptop.png",
	)
	require.NoError(t, err)
	return item
}

func storedOrder(t *testing.T, id int64, ownerID string, status order.Status) *order.Order {
	t.Helper()
	var deliveredAt *time.Time
	if status == order.Delivered {
		ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		deliveredAt = &ts
	}
	o, err := order.RestoreOrder(
		id, ownerID, "buyer@example.com", "Av. Siempre Viva 742", "Ana Buyer",
		status, decimal.NewFromInt(2160),
		[]order.Item{testItem(t)},
		time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		deliveredAt,
	)
	require.NoError(t, err)
	return o
}
