package queries

import (
	"errors"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetStatusStatsQueryIsNotConstructed = errors.New(
	"GetStatusStatsQuery must be created via NewGetStatusStatsQuery constructor",
)

// GetStatusStatsQuery retrieves lifecycle statistics: counts and totals
// per state, a monthly trend and the average dwell time per state.
// Administrators see global figures; everyone else sees their own orders.
type GetStatusStatsQuery struct {
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewGetStatusStatsQuery creates a validated lifecycle statistics query.
func NewGetStatusStatsQuery(principal auth.Principal) (GetStatusStatsQuery, error) {
	if err := principal.Validate(); err != nil {
		return GetStatusStatsQuery{}, err
	}
	return GetStatusStatsQuery{
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStatusStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusStatsQueryIsNotConstructed)
}

// Principal returns the authenticated caller.
func (q GetStatusStatsQuery) Principal() auth.Principal {
	return q.principal
}

// StateStatsResponse aggregates the orders sitting in one state.
type StateStatsResponse struct {
	State    order.Status
	Count    int64
	TotalSum decimal.Decimal
	TotalAvg decimal.Decimal
}

// MonthlyCountResponse is one (month, state) cell of the trend, with the
// month rendered as "YYYY-MM".
type MonthlyCountResponse struct {
	Month string
	State order.Status
	Count int64
}

// StateDwellResponse is the average time in hours orders took to reach a
// state, measured between consecutive audit entries.
type StateDwellResponse struct {
	State    order.Status
	AvgHours float64
}

// GetStatusStatsQueryResponse bundles the three statistic groups. ByState
// is always in severity order (pending first, cancelled last); states with
// no orders are omitted.
type GetStatusStatsQueryResponse struct {
	ByState      []StateStatsResponse
	MonthlyTrend []MonthlyCountResponse
	DwellHours   []StateDwellResponse
}
