package queries_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/adapters/out/postgres/historyrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// QueryHandlersIntegrationTestSuite runs the read side against a real
// PostgreSQL instance, seeding through the repositories so the data always
// enters the same way production writes do.
type QueryHandlersIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
	histRepo  *historyrepo.GormStatusHistoryRepository
}

func (suite *QueryHandlersIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
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

func (suite *QueryHandlersIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)
	suite.orderRepo = orderrepo.NewGormOrderRepository(suite.db)
	suite.histRepo = historyrepo.NewGormStatusHistoryRepository(suite.db)
}

func (suite *QueryHandlersIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// seedOrder creates an order for ownerID with one product line priced at
// price, then walks it through the machine until it holds target.
func (suite *QueryHandlersIntegrationTestSuite) seedOrder(
	ownerID string,
	productName string,
	price int64,
	quantity int,
	target order.Status,
) *order.Order {
	ctx := context.Background()

	item, err := order.NewItem(
		int64(gofakeit.Number(1, 100000)), productName, decimal.NewFromInt(price),
		0, gofakeit.Company(), gofakeit.ProductUPC(), quantity, gofakeit.URL(),
	)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		ownerID, gofakeit.Email(), gofakeit.Street(), gofakeit.Name(),
		[]order.Item{item}, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orderRepo.Add(ctx, o))

	walks := map[order.Status][]order.Status{
		order.Pending:    {},
		order.Processing: {order.Processing},
		order.Shipped:    {order.Processing, order.Shipped},
		order.Delivered:  {order.Processing, order.Shipped, order.Delivered},
		order.Cancelled:  {order.Cancelled},
	}

	changedAt := time.Now().UTC().Add(-time.Duration(len(walks[target])) * time.Hour)
	for _, next := range walks[target] {
		previous := o.Status()
		suite.Require().NoError(o.TransitionTo(next, nil, changedAt))
		suite.Require().NoError(suite.orderRepo.UpdateStatus(ctx, o, previous))

		entry, entryErr := order.NewStatusChange(o.ID(), previous, next, "", "admin-1", changedAt)
		suite.Require().NoError(entryErr)
		suite.Require().NoError(suite.histRepo.Append(ctx, entry))

		changedAt = changedAt.Add(time.Hour)
	}

	return o
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_OwnerSeesItems() {
	ctx := context.Background()
	seeded := suite.seedOrder("user-1", "Laptop Pro 14", 1200, 2, order.Pending)

	query, err := queries.NewGetOrderQuery(seeded.ID(), userPrincipal(suite.T(), "user-1"))
	suite.Require().NoError(err)

	resp, err := queries.NewGetOrderQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(seeded.ID(), resp.ID)
	suite.Equal(order.Pending, resp.Status)
	suite.True(resp.Total.Equal(decimal.NewFromInt(2400)))
	suite.Require().Len(resp.Items, 1)
	suite.Equal("Laptop Pro 14", resp.Items[0].Name)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_StrangerForbidden() {
	seeded := suite.seedOrder("user-1", "Laptop Pro 14", 1200, 1, order.Pending)

	query, err := queries.NewGetOrderQuery(seeded.ID(), userPrincipal(suite.T(), "user-2"))
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrForbidden)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrder_UnknownID_NotFound() {
	query, err := queries.NewGetOrderQuery(999999, adminPrincipal(suite.T()))
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.db).Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrders_PaginationAndScoping() {
	ctx := context.Background()
	for range 3 {
		suite.seedOrder("user-1", gofakeit.ProductName(), int64(gofakeit.Number(10, 500)), 1, order.Pending)
	}
	suite.seedOrder("user-2", gofakeit.ProductName(), 100, 1, order.Pending)

	// Admin sees everything, two per page.
	query, err := queries.NewGetOrdersQuery(1, 2, queries.OrderFilter{}, "", false, adminPrincipal(suite.T()))
	suite.Require().NoError(err)

	resp, err := queries.NewGetOrdersQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(int64(4), resp.Total)
	suite.Equal(2, resp.Pages)
	suite.Len(resp.Data, 2)
	suite.Nil(resp.Prev)
	suite.Require().NotNil(resp.Next)
	suite.Equal(2, *resp.Next)

	// Non-admin only sees their own orders.
	query, err = queries.NewGetOrdersQuery(1, 10, queries.OrderFilter{}, "", false, userPrincipal(suite.T(), "user-1"))
	suite.Require().NoError(err)

	resp, err = queries.NewGetOrdersQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(int64(3), resp.Total)
	for _, o := range resp.Data {
		suite.Equal("user-1", o.OwnerID)
		suite.NotEmpty(o.Items)
	}
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrders_FilterByStatus() {
	ctx := context.Background()
	suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Pending)
	suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Cancelled)
	suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Delivered)

	cancelled := order.Cancelled
	query, err := queries.NewGetOrdersQuery(
		1, 10, queries.OrderFilter{Status: &cancelled}, "", false, adminPrincipal(suite.T()),
	)
	suite.Require().NoError(err)

	resp, err := queries.NewGetOrdersQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(int64(1), resp.Total)
	suite.Require().Len(resp.Data, 1)
	suite.Equal(order.Cancelled, resp.Data[0].Status)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetStatusHistory_WalkInAuditOrder() {
	ctx := context.Background()
	seeded := suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Delivered)

	query, err := queries.NewGetStatusHistoryQuery(seeded.ID(), userPrincipal(suite.T(), "user-1"))
	suite.Require().NoError(err)

	entries, err := queries.NewGetStatusHistoryQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	suite.Equal(order.Pending, entries[0].Previous)
	suite.Equal(order.Processing, entries[0].Next)
	suite.Equal(order.Shipped, entries[1].Next)
	suite.Equal(order.Delivered, entries[2].Next)
	for i := 1; i < len(entries); i++ {
		suite.False(entries[i].ChangedAt.Before(entries[i-1].ChangedAt))
	}
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetStatusHistory_StrangerForbidden() {
	seeded := suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Processing)

	query, err := queries.NewGetStatusHistoryQuery(seeded.ID(), userPrincipal(suite.T(), "user-2"))
	suite.Require().NoError(err)

	_, err = queries.NewGetStatusHistoryQueryHandler(suite.db).Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrForbidden)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetStatusStats_SeverityOrderAndDwell() {
	ctx := context.Background()
	suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Pending)
	suite.seedOrder("user-1", gofakeit.ProductName(), 200, 1, order.Cancelled)
	suite.seedOrder("user-2", gofakeit.ProductName(), 300, 1, order.Delivered)

	query, err := queries.NewGetStatusStatsQuery(adminPrincipal(suite.T()))
	suite.Require().NoError(err)

	resp, err := queries.NewGetStatusStatsQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(resp.ByState, 3)
	suite.Equal(order.Pending, resp.ByState[0].State)
	suite.Equal(order.Delivered, resp.ByState[1].State)
	suite.Equal(order.Cancelled, resp.ByState[2].State)
	suite.Equal(int64(1), resp.ByState[0].Count)
	suite.True(resp.ByState[0].TotalSum.Equal(decimal.NewFromInt(100)))

	suite.NotEmpty(resp.MonthlyTrend)

	// The delivered order walked processing -> shipped -> delivered one
	// hour apart, so each reached state dwells for about an hour.
	suite.Require().NotEmpty(resp.DwellHours)
	for _, dwell := range resp.DwellHours {
		suite.InDelta(1.0, dwell.AvgHours, 0.1)
	}
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetStatusStats_NonAdminScoped() {
	ctx := context.Background()
	suite.seedOrder("user-1", gofakeit.ProductName(), 100, 1, order.Pending)
	suite.seedOrder("user-2", gofakeit.ProductName(), 200, 1, order.Pending)

	query, err := queries.NewGetStatusStatsQuery(userPrincipal(suite.T(), "user-1"))
	suite.Require().NoError(err)

	resp, err := queries.NewGetStatusStatsQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(resp.ByState, 1)
	suite.Equal(int64(1), resp.ByState[0].Count)
}

func (suite *QueryHandlersIntegrationTestSuite) TestGetOrderStats_TopProducts() {
	ctx := context.Background()
	suite.seedOrder("user-1", "Laptop Pro 14", 1200, 3, order.Pending)
	suite.seedOrder("user-1", "USB Hub", 30, 1, order.Delivered)
	suite.seedOrder("user-2", "USB Hub", 30, 5, order.Pending)

	query, err := queries.NewGetOrderStatsQuery(adminPrincipal(suite.T()))
	suite.Require().NoError(err)

	resp, err := queries.NewGetOrderStatsQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(int64(3), resp.OrderCount)
	suite.Require().NotEmpty(resp.TopProducts)
	suite.Equal("USB Hub", resp.TopProducts[0].Name)
	suite.Equal(int64(6), resp.TopProducts[0].Units)

	// Owner-scoped figures only include user-1's orders.
	query, err = queries.NewGetOrderStatsQuery(userPrincipal(suite.T(), "user-1"))
	suite.Require().NoError(err)

	resp, err = queries.NewGetOrderStatsQueryHandler(suite.db).Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(int64(2), resp.OrderCount)
	suite.True(resp.TotalSpend.Equal(decimal.NewFromInt(3630)))
}

func TestQueryHandlersIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersIntegrationTestSuite))
}
