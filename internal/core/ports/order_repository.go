package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate together with its items and
	// assigns the generated identifier to the aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to the mutable non-status attributes of an
	// existing order (currently the delivery address).
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus persists the aggregate's status and delivery timestamp,
	// conditioned on the row still holding expected at write time. When the
	// condition matches zero rows the state changed concurrently and an
	// InvalidTransitionError is returned; the caller must not retry
	// automatically.
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order aggregate with its items by identifier.
	// Returns an ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// Delete removes an order; its items and status history rows are
	// removed by the cascading foreign keys.
	Delete(ctx context.Context, id int64) error
}
