package queries

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/google/uuid"
)

var ErrGetStatusHistoryQueryIsNotConstructed = errors.New(
	"GetStatusHistoryQuery must be created via NewGetStatusHistoryQuery constructor",
)

// GetStatusHistoryQuery retrieves the complete status audit trail of one
// order, oldest entry first. Owner or admin. The trail is never paginated:
// it is bounded by the length of the longest walk through the transition
// table.
type GetStatusHistoryQuery struct {
	orderID   int64
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewGetStatusHistoryQuery creates a validated history query.
func NewGetStatusHistoryQuery(orderID int64, principal auth.Principal) (GetStatusHistoryQuery, error) {
	if orderID <= 0 {
		return GetStatusHistoryQuery{}, errs.NewValueIsInvalidErrorWithCause("orden_id",
			fmt.Errorf("%d is not a positive order id", orderID))
	}
	if err := principal.Validate(); err != nil {
		return GetStatusHistoryQuery{}, err
	}

	return GetStatusHistoryQuery{
		orderID:   orderID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusHistoryQueryIsNotConstructed)
}

// OrderID returns the id of the order whose history is requested.
func (q GetStatusHistoryQuery) OrderID() int64 {
	return q.orderID
}

// Principal returns the authenticated caller.
func (q GetStatusHistoryQuery) Principal() auth.Principal {
	return q.principal
}

// StatusChangeResponse is one entry of the audit trail.
type StatusChangeResponse struct {
	ID        uuid.UUID
	Previous  order.Status
	Next      order.Status
	Reason    string
	ChangedBy string
	ChangedAt time.Time
}
