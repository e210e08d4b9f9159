package queries

import (
	"context"

	"orders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// severityCase is the ORDER BY expression that renders states in the fixed
// severity order used by every report. The enum values happen to match the
// severity rank, so the CASE maps names back to them.
const severityCase = `CASE estado
		WHEN 'pending' THEN 1
		WHEN 'processing' THEN 2
		WHEN 'shipped' THEN 3
		WHEN 'delivered' THEN 4
		WHEN 'cancelled' THEN 5
	END`

// GetStatusStatsQueryHandler computes lifecycle statistics with three
// aggregate queries. Scoping to the caller's own orders happens in SQL so
// the database never hands back rows the caller may not see.
type GetStatusStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetStatusStatsQueryHandler creates a handler for lifecycle statistics.
func NewGetStatusStatsQueryHandler(db *gorm.DB) GetStatusStatsQueryHandler {
	return GetStatusStatsQueryHandler{db: db}
}

// Handle executes the three statistic queries.
func (h GetStatusStatsQueryHandler) Handle(
	ctx context.Context,
	query GetStatusStatsQuery,
) (GetStatusStatsQueryResponse, error) {
	var resp GetStatusStatsQueryResponse

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

	byState, err := h.byState(ctx, scope, args)
	if err != nil {
		return resp, err
	}
	resp.ByState = byState

	trend, err := h.monthlyTrend(ctx, scope, args)
	if err != nil {
		return resp, err
	}
	resp.MonthlyTrend = trend

	dwell, err := h.dwellHours(ctx, query)
	if err != nil {
		return resp, err
	}
	resp.DwellHours = dwell

	return resp, nil
}

func (h GetStatusStatsQueryHandler) byState(
	ctx context.Context,
	scope string,
	args []any,
) ([]StateStatsResponse, error) {
	stats := make([]StateStatsResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			estado,
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(AVG(total), 0)
		FROM orders`+scope+`
		GROUP BY estado
		ORDER BY `+severityCase, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stat   StateStatsResponse
			status string
		)
		if err = rows.Scan(&status, &stat.Count, &stat.TotalSum, &stat.TotalAvg); err != nil {
			return nil, err
		}
		if stat.State, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (h GetStatusStatsQueryHandler) monthlyTrend(
	ctx context.Context,
	scope string,
	args []any,
) ([]MonthlyCountResponse, error) {
	trend := make([]MonthlyCountResponse, 0)

	where := " WHERE fecha_pago >= date_trunc('month', now()) - interval '5 months'"
	if scope != "" {
		where += " AND user_id = ?"
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			to_char(fecha_pago, 'YYYY-MM') AS mes,
			estado,
			COUNT(*)
		FROM orders`+where+`
		GROUP BY mes, estado
		ORDER BY mes, `+severityCase, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cell   MonthlyCountResponse
			status string
		)
		if err = rows.Scan(&cell.Month, &status, &cell.Count); err != nil {
			return nil, err
		}
		if cell.State, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		trend = append(trend, cell)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return trend, nil
}

// dwellHours averages, per target state, the gap between each audit entry
// and the previous one of the same order. The first entry of every order
// has no predecessor and is excluded; window functions cannot sit inside
// an aggregate, hence the subquery.
func (h GetStatusStatsQueryHandler) dwellHours(
	ctx context.Context,
	query GetStatusStatsQuery,
) ([]StateDwellResponse, error) {
	dwell := make([]StateDwellResponse, 0)

	var (
		join string
		args []any
	)
	if !query.Principal().IsAdmin() {
		join = " JOIN orders o ON o.orden_id = h.orden_id AND o.user_id = ?"
		args = []any{query.Principal().ID()}
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			estado_nuevo,
			AVG(EXTRACT(EPOCH FROM (changed_at - prev_changed_at)) / 3600.0)
		FROM (
			SELECT
				h.estado_nuevo,
				h.changed_at,
				LAG(h.changed_at) OVER (
					PARTITION BY h.orden_id ORDER BY h.changed_at
				) AS prev_changed_at
			FROM order_status_history h`+join+`
		) deltas
		WHERE prev_changed_at IS NOT NULL
		GROUP BY estado_nuevo
		ORDER BY CASE estado_nuevo
			WHEN 'pending' THEN 1
			WHEN 'processing' THEN 2
			WHEN 'shipped' THEN 3
			WHEN 'delivered' THEN 4
			WHEN 'cancelled' THEN 5
		END
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry  StateDwellResponse
			status string
		)
		if err = rows.Scan(&status, &entry.AvgHours); err != nil {
			return nil, err
		}
		if entry.State, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		dwell = append(dwell, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return dwell, nil
}
