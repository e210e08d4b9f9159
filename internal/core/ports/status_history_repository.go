package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// StatusHistoryRepository defines the persistence contract for the
// append-only status audit trail. Entries are never updated or deleted
// individually; they disappear only with their parent order.
type StatusHistoryRepository interface {
	// Append persists one new history entry.
	Append(ctx context.Context, entry *order.StatusChange) error

	// ListByOrder retrieves all entries for an order ordered by changedAt
	// ascending. This is the canonical audit order.
	ListByOrder(ctx context.Context, orderID int64) ([]*order.StatusChange, error)
}
