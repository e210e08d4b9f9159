package queries

import (
	"context"

	"orders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// topProductsLimit bounds the product ranking.
const topProductsLimit = 5

// GetOrderStatsQueryHandler computes purchase statistics with three
// aggregate queries.
type GetOrderStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderStatsQueryHandler creates a handler for purchase statistics.
func NewGetOrderStatsQueryHandler(db *gorm.DB) GetOrderStatsQueryHandler {
	return GetOrderStatsQueryHandler{db: db}
}

// Handle executes the statistics queries.
func (h GetOrderStatsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatsQuery,
) (GetOrderStatsQueryResponse, error) {
	var resp GetOrderStatsQueryResponse

	if err := query.Validate(); err != nil {
		return resp, err
	}

	var (
		scope string
		args  []any
	)
	if !query.Principal().IsAdmin() {
		scope = " WHERE user_id = ?"
		args = []any{query.Principal().ID()}
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(AVG(total), 0)
		FROM orders`+scope, args...).Row()
	if err := row.Scan(&resp.OrderCount, &resp.TotalSpend, &resp.AvgSpend); err != nil {
		return resp, err
	}

	byState, err := h.byState(ctx, scope, args)
	if err != nil {
		return resp, err
	}
	resp.ByState = byState

	topProducts, err := h.topProducts(ctx, query)
	if err != nil {
		return resp, err
	}
	resp.TopProducts = topProducts

	return resp, nil
}

func (h GetOrderStatsQueryHandler) byState(
	ctx context.Context,
	scope string,
	args []any,
) ([]StateCountResponse, error) {
	counts := make([]StateCountResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT estado, COUNT(*)
		FROM orders`+scope+`
		GROUP BY estado
		ORDER BY `+severityCase, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			count  StateCountResponse
			status string
		)
		if err = rows.Scan(&status, &count.Count); err != nil {
			return nil, err
		}
		if count.State, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (h GetOrderStatsQueryHandler) topProducts(
	ctx context.Context,
	query GetOrderStatsQuery,
) ([]ProductCountResponse, error) {
	ranking := make([]ProductCountResponse, 0, topProductsLimit)

	var (
		join string
		args []any
	)
	if !query.Principal().IsAdmin() {
		join = " JOIN orders o ON o.orden_id = p.orden_id AND o.user_id = ?"
		args = []any{query.Principal().ID()}
	}
	args = append(args, topProductsLimit)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT p.nombre, SUM(p.cantidad) AS unidades
		FROM order_products p`+join+`
		GROUP BY p.nombre
		ORDER BY unidades DESC, p.nombre ASC
		LIMIT ?
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry ProductCountResponse
		if err = rows.Scan(&entry.Name, &entry.Units); err != nil {
			return nil, err
		}
		ranking = append(ranking, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return ranking, nil
}
