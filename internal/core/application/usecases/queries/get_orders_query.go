package queries

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

const (
	// DefaultPageLimit is applied when the caller does not specify one.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size a caller may request.
	MaxPageLimit = 100
)

// sortColumns whitelists the sortable columns. Anything outside this map
// is rejected at construction, so the ORDER BY clause is never built from
// raw caller input.
var sortColumns = map[string]string{
	"fecha_pago": "fecha_pago",
	"total":      "total",
	"estado":     "estado",
}

// OrderFilter carries the optional listing filters. The zero value means
// "no filtering".
type OrderFilter struct {
	UserID   string
	Status   *order.Status
	PaidFrom *time.Time
	PaidTo   *time.Time
}

// GetOrdersQuery retrieves a page of orders. Administrators see every
// order and may filter by user; other callers are always scoped to their
// own orders.
type GetOrdersQuery struct {
	page      int
	limit     int
	filter    OrderFilter
	sortBy    string
	sortDesc  bool
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a validated listing query. page starts at 1;
// limit 0 means DefaultPageLimit; sortBy "" means fecha_pago.
func NewGetOrdersQuery(
	page, limit int,
	filter OrderFilter,
	sortBy string,
	sortDesc bool,
	principal auth.Principal,
) (GetOrdersQuery, error) {
	if page <= 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 0 || limit > MaxPageLimit {
		return GetOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	if sortBy == "" {
		sortBy = "fecha_pago"
	}
	if _, ok := sortColumns[sortBy]; !ok {
		return GetOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("sort",
			fmt.Errorf("%q is not a sortable column", sortBy))
	}
	if filter.Status != nil {
		if err := filter.Status.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}
	if err := principal.Validate(); err != nil {
		return GetOrdersQuery{}, err
	}
	// Non-admin callers only ever see their own orders; a filter asking
	// for someone else's is an authorization failure, not an empty page.
	if filter.UserID != "" && !principal.CanAccess(filter.UserID) {
		return GetOrdersQuery{}, errs.NewForbiddenError("list orders of another user", principal.ID())
	}
	if !principal.IsAdmin() {
		filter.UserID = principal.ID()
	}

	return GetOrdersQuery{
		page:      page,
		limit:     limit,
		filter:    filter,
		sortBy:    sortBy,
		sortDesc:  sortDesc,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Page returns the 1-based page number.
func (q GetOrdersQuery) Page() int {
	return q.page
}

// Limit returns the page size.
func (q GetOrdersQuery) Limit() int {
	return q.limit
}

// Filter returns the effective filters after scoping.
func (q GetOrdersQuery) Filter() OrderFilter {
	return q.filter
}

// SortBy returns the whitelisted sort column name.
func (q GetOrdersQuery) SortBy() string {
	return q.sortBy
}

// SortDesc reports whether the sort direction is descending.
func (q GetOrdersQuery) SortDesc() bool {
	return q.sortDesc
}

// Principal returns the authenticated caller.
func (q GetOrdersQuery) Principal() auth.Principal {
	return q.principal
}

// GetOrdersQueryResponse is one page of orders plus paging metadata.
// First is always 1; Next and Prev are nil at the edges.
type GetOrdersQueryResponse struct {
	Total int64
	Pages int
	First int
	Next  *int
	Prev  *int
	Data  []OrderResponse
}
