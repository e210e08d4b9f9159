package historyrepo_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/adapters/out/postgres/historyrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// StatusHistoryRepositoryIntegrationTestSuite verifies the append-only
// audit trail against a real PostgreSQL instance.
type StatusHistoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *historyrepo.GormStatusHistoryRepository
	orderRepo  *orderrepo.GormOrderRepository
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{}, &historyrepo.StatusChangeDTO{},
	))
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)
	suite.repository = historyrepo.NewGormStatusHistoryRepository(suite.db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	item, err := order.NewItem(
		7, "Laptop Pro 14", decimal.NewFromInt(1200), 10, "Lenner", "LP-14", 2, "laptop.png",
	)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		"user-1", "buyer@example.com", "Av. Siempre Viva 742", "Ana Buyer",
		[]order.Item{item}, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) TestAppendAndList_OrderedByChangedAt() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	base := time.Now().UTC().Truncate(time.Millisecond)
	walk := []struct {
		previous order.Status
		next     order.Status
		reason   string
	}{
		{order.Pending, order.Processing, "stock confirmed"},
		{order.Processing, order.Shipped, ""},
		{order.Shipped, order.Delivered, "left at reception"},
	}

	for i, step := range walk {
		entry, err := order.NewStatusChange(
			testOrder.ID(), step.previous, step.next, step.reason, "admin-1",
			base.Add(time.Duration(i)*time.Minute),
		)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.Append(ctx, entry))
	}

	entries, err := suite.repository.ListByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	suite.Equal(order.Pending, entries[0].Previous())
	suite.Equal(order.Processing, entries[0].Next())
	suite.Equal("stock confirmed", entries[0].Reason())
	suite.Empty(entries[1].Reason())
	suite.Equal(order.Delivered, entries[2].Next())

	for i := 1; i < len(entries); i++ {
		suite.True(entries[i].ChangedAt().After(entries[i-1].ChangedAt()))
	}
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) TestListByOrder_NoEntries_Empty() {
	testOrder := suite.createTestOrder()

	entries, err := suite.repository.ListByOrder(context.Background(), testOrder.ID())
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *StatusHistoryRepositoryIntegrationTestSuite) TestDeleteOrder_CascadesToHistory() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	entry, err := order.NewStatusChange(
		testOrder.ID(), order.Pending, order.Cancelled, "ordered by mistake", "user-1", time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Append(ctx, entry))

	suite.Require().NoError(suite.orderRepo.Delete(ctx, testOrder.ID()))

	var count int64
	suite.Require().NoError(suite.db.Model(&historyrepo.StatusChangeDTO{}).
		Where("orden_id = ?", testOrder.ID()).
		Count(&count).Error)
	suite.Zero(count)
}

func TestStatusHistoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(StatusHistoryRepositoryIntegrationTestSuite))
}
