// Package queries contains read-only operations that bypass the domain
// model and read through the database directly. Query handlers return
// response structs shaped for the HTTP layer, never aggregates.
package queries

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its product lines. Owner or admin.
type GetOrderQuery struct {
	orderID   int64
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a validated single-order query.
func NewGetOrderQuery(orderID int64, principal auth.Principal) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause("orden_id",
			fmt.Errorf("%d is not a positive order id", orderID))
	}
	if err := principal.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID:   orderID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the id of the order to fetch.
func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}

// Principal returns the authenticated caller.
func (q GetOrderQuery) Principal() auth.Principal {
	return q.principal
}

// OrderItemResponse is one product line of an order.
type OrderItemResponse struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Discount  int
	Brand     string
	Model     string
	Quantity  int
	Image     string
}

// OrderResponse is the full order projection returned by single-order and
// listing queries.
type OrderResponse struct {
	ID          int64
	OwnerID     string
	Email       string
	Address     string
	FullName    string
	Status      order.Status
	Total       decimal.Decimal
	PaidAt      time.Time
	DeliveredAt *time.Time
	Items       []OrderItemResponse
}
