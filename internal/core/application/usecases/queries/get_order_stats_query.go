package queries

import (
	"errors"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderStatsQueryIsNotConstructed = errors.New(
	"GetOrderStatsQuery must be created via NewGetOrderStatsQuery constructor",
)

// GetOrderStatsQuery retrieves purchase statistics: order counts per state,
// total and average spend, and the most bought products. Administrators
// get global figures; everyone else their own.
type GetOrderStatsQuery struct {
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewGetOrderStatsQuery creates a validated purchase statistics query.
func NewGetOrderStatsQuery(principal auth.Principal) (GetOrderStatsQuery, error) {
	if err := principal.Validate(); err != nil {
		return GetOrderStatsQuery{}, err
	}
	return GetOrderStatsQuery{
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatsQueryIsNotConstructed)
}

// Principal returns the authenticated caller.
func (q GetOrderStatsQuery) Principal() auth.Principal {
	return q.principal
}

// StateCountResponse is the number of orders sitting in one state.
type StateCountResponse struct {
	State order.Status
	Count int64
}

// ProductCountResponse is one entry of the top-products ranking.
type ProductCountResponse struct {
	Name  string
	Units int64
}

// GetOrderStatsQueryResponse bundles the purchase statistics.
type GetOrderStatsQueryResponse struct {
	OrderCount  int64
	TotalSpend  decimal.Decimal
	AvgSpend    decimal.Decimal
	ByState     []StateCountResponse
	TopProducts []ProductCountResponse
}
