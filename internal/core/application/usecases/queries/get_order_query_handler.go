package queries

import (
	"context"
	"database/sql"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order and its product lines from the
// database. Ownership is checked against the stored row, so probing a
// foreign order yields a forbidden error rather than a not-found one.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	var resp OrderResponse

	if err := query.Validate(); err != nil {
		return resp, err
	}

	resp, err := scanOrder(ctx, h.db, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	if !query.Principal().CanAccess(resp.OwnerID) {
		return OrderResponse{}, errs.NewForbiddenError("view order", query.Principal().ID())
	}

	resp.Items, err = scanOrderItems(ctx, h.db, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	return resp, nil
}

func scanOrder(ctx context.Context, db *gorm.DB, orderID int64) (OrderResponse, error) {
	var resp OrderResponse

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			orden_id,
			user_id,
			correo_usuario,
			direccion,
			nombre_completo,
			estado,
			total,
			fecha_pago,
			fecha_entrega
		FROM orders
		WHERE orden_id = ?
	`, orderID).Rows()
	if err != nil {
		return resp, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return resp, err
		}
		return resp, errs.NewObjectNotFoundError("orden_id", orderID)
	}

	var (
		status      string
		deliveredAt sql.NullTime
	)
	err = rows.Scan(
		&resp.ID,
		&resp.OwnerID,
		&resp.Email,
		&resp.Address,
		&resp.FullName,
		&status,
		&resp.Total,
		&resp.PaidAt,
		&deliveredAt,
	)
	if err != nil {
		return resp, err
	}

	resp.Status, err = order.ParseStatus(status)
	if err != nil {
		return resp, err
	}
	if deliveredAt.Valid {
		ts := deliveredAt.Time
		resp.DeliveredAt = &ts
	}

	return resp, nil
}

func scanOrderItems(ctx context.Context, db *gorm.DB, orderID int64) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			producto_id,
			nombre,
			precio,
			descuento,
			marca,
			modelo,
			cantidad,
			imagen
		FROM order_products
		WHERE orden_id = ?
		ORDER BY producto_id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemResponse
		err = rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Discount,
			&item.Brand,
			&item.Model,
			&item.Quantity,
			&item.Image,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
