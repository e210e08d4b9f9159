package queries

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOrdersQueryHandler reads order pages from the database. The query has
// already scoped non-admin callers to their own orders, so the handler
// only translates filters into SQL.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the listing query: one COUNT for the paging metadata,
// one page select, and one batched select for the product lines of the
// returned page.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) (GetOrdersQueryResponse, error) {
	var resp GetOrdersQueryResponse

	if err := query.Validate(); err != nil {
		return resp, err
	}

	where, args := buildOrderFilter(query.Filter())

	var total int64
	err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM orders"+where, args...).
		Scan(&total).Error
	if err != nil {
		return resp, err
	}

	resp.Total = total
	resp.Pages = int((total + int64(query.Limit()) - 1) / int64(query.Limit()))
	resp.First = 1
	resp.Data = make([]OrderResponse, 0)

	if page := query.Page(); page > 1 {
		prev := page - 1
		resp.Prev = &prev
	}
	if page := query.Page(); page < resp.Pages {
		next := page + 1
		resp.Next = &next
	}

	direction := "ASC"
	if query.SortDesc() {
		direction = "DESC"
	}
	// sortBy was validated against the whitelist at construction.
	orderBy := fmt.Sprintf(" ORDER BY %s %s, orden_id ASC", sortColumns[query.SortBy()], direction)
	offset := (query.Page() - 1) * query.Limit()

	pageArgs := append(append([]any{}, args...), query.Limit(), offset)
	rows, err := h.db.WithContext(ctx).Raw(`
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
		FROM orders`+where+orderBy+`
		LIMIT ? OFFSET ?
	`, pageArgs...).Rows()
	if err != nil {
		return resp, err
	}
	defer rows.Close()

	ids := make([]int64, 0, query.Limit())
	for rows.Next() {
		var (
			o           OrderResponse
			status      string
			deliveredAt sql.NullTime
		)
		err = rows.Scan(
			&o.ID, &o.OwnerID, &o.Email, &o.Address, &o.FullName,
			&status, &o.Total, &o.PaidAt, &deliveredAt,
		)
		if err != nil {
			return resp, err
		}

		o.Status, err = order.ParseStatus(status)
		if err != nil {
			return resp, err
		}
		if deliveredAt.Valid {
			ts := deliveredAt.Time
			o.DeliveredAt = &ts
		}
		o.Items = make([]OrderItemResponse, 0)

		resp.Data = append(resp.Data, o)
		ids = append(ids, o.ID)
	}
	if err = rows.Err(); err != nil {
		return resp, err
	}

	if len(ids) == 0 {
		return resp, nil
	}

	if err = h.attachItems(ctx, resp.Data, ids); err != nil {
		return resp, err
	}

	return resp, nil
}

// attachItems loads the product lines for every order of the page in one
// query and distributes them over the response slice.
func (h GetOrdersQueryHandler) attachItems(ctx context.Context, data []OrderResponse, ids []int64) error {
	byID := make(map[int64]*OrderResponse, len(data))
	for i := range data {
		byID[data[i].ID] = &data[i]
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			orden_id,
			producto_id,
			nombre,
			precio,
			descuento,
			marca,
			modelo,
			cantidad,
			imagen
		FROM order_products
		WHERE orden_id IN ?
		ORDER BY orden_id, producto_id
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			item    OrderItemResponse
		)
		err = rows.Scan(
			&orderID, &item.ProductID, &item.Name, &item.Price,
			&item.Discount, &item.Brand, &item.Model, &item.Quantity, &item.Image,
		)
		if err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return rows.Err()
}

// buildOrderFilter translates an OrderFilter into a WHERE clause plus its
// bind arguments. Returns "" when no filter applies.
func buildOrderFilter(filter OrderFilter) (string, []any) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "estado = ?")
		args = append(args, filter.Status.String())
	}
	if filter.PaidFrom != nil {
		conditions = append(conditions, "fecha_pago >= ?")
		args = append(args, *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		conditions = append(conditions, "fecha_pago <= ?")
		args = append(args, *filter.PaidTo)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
