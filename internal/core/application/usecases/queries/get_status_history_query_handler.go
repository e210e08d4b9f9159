package queries

import (
	"context"
	"database/sql"
	"errors"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetStatusHistoryQueryHandler reads the audit trail of one order. The
// order row is consulted first so unknown ids report not-found and foreign
// orders report forbidden before any history is exposed.
type GetStatusHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetStatusHistoryQueryHandler creates a handler for history queries.
func NewGetStatusHistoryQueryHandler(db *gorm.DB) GetStatusHistoryQueryHandler {
	return GetStatusHistoryQueryHandler{db: db}
}

// Handle executes the query. Entries come back ordered by changed_at
// ascending, the canonical audit order.
func (h GetStatusHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetStatusHistoryQuery,
) ([]StatusChangeResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var ownerID string
	row := h.db.WithContext(ctx).
		Raw("SELECT user_id FROM orders WHERE orden_id = ?", query.OrderID()).
		Row()
	if err := row.Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("orden_id", query.OrderID())
		}
		return nil, err
	}

	if !query.Principal().CanAccess(ownerID) {
		return nil, errs.NewForbiddenError("view order history", query.Principal().ID())
	}

	entries := make([]StatusChangeResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			estado_anterior,
			estado_nuevo,
			motivo,
			changed_by,
			changed_at
		FROM order_status_history
		WHERE orden_id = ?
		ORDER BY changed_at ASC
	`, query.OrderID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry    StatusChangeResponse
			previous string
			next     string
			reason   sql.NullString
		)
		err = rows.Scan(&entry.ID, &previous, &next, &reason, &entry.ChangedBy, &entry.ChangedAt)
		if err != nil {
			return nil, err
		}

		entry.Previous, err = order.ParseStatus(previous)
		if err != nil {
			return nil, err
		}
		entry.Next, err = order.ParseStatus(next)
		if err != nil {
			return nil, err
		}
		entry.Reason = reason.String

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
