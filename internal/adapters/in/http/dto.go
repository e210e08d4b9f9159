package http

import (
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wire DTOs. Field names follow the public API contract, which is Spanish
// for everything the storefront consumes.

type ItemRequest struct {
	ProductoID int64           `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Descuento  int             `json:"descuento"`
	Marca      string          `json:"marca"`
	Modelo     string          `json:"modelo"`
	Cantidad   int             `json:"cantidad"`
	Imagen     string          `json:"imagen"`
}

type CreateOrderRequest struct {
	// UserID is optional: administrators may create on behalf of a user,
	// everyone else gets their own id regardless.
	UserID    string        `json:"user_id,omitempty"`
	Email     string        `json:"correo_usuario"`
	Direccion string        `json:"direccion"`
	Nombre    string        `json:"nombre_completo"`
	Productos []ItemRequest `json:"productos"`
}

type UpdateOrderRequest struct {
	Direccion string `json:"direccion"`
}

type ChangeStatusRequest struct {
	Estado       string `json:"estado"`
	Motivo       string `json:"motivo,omitempty"`
	FechaEntrega string `json:"fecha_entrega,omitempty"`
}

type CancelOrderRequest struct {
	Motivo string `json:"motivo"`
}

type ItemResponse struct {
	ProductoID int64           `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Descuento  int             `json:"descuento"`
	Marca      string          `json:"marca"`
	Modelo     string          `json:"modelo"`
	Cantidad   int             `json:"cantidad"`
	Imagen     string          `json:"imagen"`
}

type OrderResponse struct {
	OrdenID      int64           `json:"orden_id"`
	UserID       string          `json:"user_id"`
	Email        string          `json:"correo_usuario"`
	Direccion    string          `json:"direccion"`
	Nombre       string          `json:"nombre_completo"`
	Estado       string          `json:"estado"`
	Total        decimal.Decimal `json:"total"`
	FechaPago    time.Time       `json:"fecha_pago"`
	FechaEntrega *time.Time      `json:"fecha_entrega,omitempty"`
	Productos    []ItemResponse  `json:"productos"`
}

type TransitionResponse struct {
	De     string `json:"de"`
	A      string `json:"a"`
	Motivo string `json:"motivo,omitempty"`
}

type ChangeStatusResponse struct {
	Orden      OrderResponse      `json:"orden"`
	Transicion TransitionResponse `json:"transicion"`
}

type HistoryEntryResponse struct {
	ID             uuid.UUID `json:"id"`
	EstadoAnterior string    `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Motivo         string    `json:"motivo,omitempty"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

type PagedOrdersResponse struct {
	Total int64           `json:"total"`
	Pages int             `json:"pages"`
	First int             `json:"first"`
	Next  *int            `json:"next"`
	Prev  *int            `json:"prev"`
	Data  []OrderResponse `json:"data"`
}

type StateStatsResponse struct {
	Estado   string          `json:"estado"`
	Cantidad int64           `json:"cantidad"`
	Suma     decimal.Decimal `json:"suma_total"`
	Promedio decimal.Decimal `json:"promedio_total"`
}

type MonthlyCountResponse struct {
	Mes      string `json:"mes"`
	Estado   string `json:"estado"`
	Cantidad int64  `json:"cantidad"`
}

type StateDwellResponse struct {
	Estado        string  `json:"estado"`
	HorasPromedio float64 `json:"horas_promedio"`
}

type StatusStatsResponse struct {
	PorEstado       []StateStatsResponse   `json:"por_estado"`
	TendenciaMensal []MonthlyCountResponse `json:"tendencia_mensual"`
	TiempoPorEstado []StateDwellResponse   `json:"tiempo_por_estado"`
}

type StateCountResponse struct {
	Estado   string `json:"estado"`
	Cantidad int64  `json:"cantidad"`
}

type ProductCountResponse struct {
	Nombre   string `json:"nombre"`
	Unidades int64  `json:"unidades"`
}

type OrderStatsResponse struct {
	TotalOrdenes  int64                  `json:"total_ordenes"`
	GastoTotal    decimal.Decimal        `json:"gasto_total"`
	GastoPromedio decimal.Decimal        `json:"gasto_promedio"`
	PorEstado     []StateCountResponse   `json:"por_estado"`
	TopProductos  []ProductCountResponse `json:"top_productos"`
}

// ErrorResponse is the uniform error body. The transition fields are only
// populated for rejected state changes so clients can self-correct.
type ErrorResponse struct {
	Error               string   `json:"error"`
	EstadoActual        string   `json:"estado_actual,omitempty"`
	TransicionesValidas []string `json:"transiciones_validas,omitempty"`
	EstadosCancelables  []string `json:"estados_cancelables,omitempty"`
}

func toOrderResponse(resp queries.OrderResponse) OrderResponse {
	items := make([]ItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, ItemResponse{
			ProductoID: item.ProductID,
			Nombre:     item.Name,
			Precio:     item.Price,
			Descuento:  item.Discount,
			Marca:      item.Brand,
			Modelo:     item.Model,
			Cantidad:   item.Quantity,
			Imagen:     item.Image,
		})
	}

	return OrderResponse{
		OrdenID:      resp.ID,
		UserID:       resp.OwnerID,
		Email:        resp.Email,
		Direccion:    resp.Address,
		Nombre:       resp.FullName,
		Estado:       resp.Status.String(),
		Total:        resp.Total,
		FechaPago:    resp.PaidAt,
		FechaEntrega: resp.DeliveredAt,
		Productos:    items,
	}
}

func toOrderResponseFromAggregate(aggregate *order.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemResponse{
			ProductoID: item.ProductID(),
			Nombre:     item.Name(),
			Precio:     item.Price(),
			Descuento:  item.Discount(),
			Marca:      item.Brand(),
			Modelo:     item.Model(),
			Cantidad:   item.Quantity(),
			Imagen:     item.Image(),
		})
	}

	return OrderResponse{
		OrdenID:      aggregate.ID(),
		UserID:       aggregate.OwnerID(),
		Email:        aggregate.Email(),
		Direccion:    aggregate.Address(),
		Nombre:       aggregate.FullName(),
		Estado:       aggregate.Status().String(),
		Total:        aggregate.Total(),
		FechaPago:    aggregate.PaidAt(),
		FechaEntrega: aggregate.DeliveredAt(),
		Productos:    items,
	}
}

func toChangeStatusResponse(result commands.ChangeOrderStatusResult) ChangeStatusResponse {
	return ChangeStatusResponse{
		Orden: toOrderResponseFromAggregate(result.Order),
		Transicion: TransitionResponse{
			De:     result.Transition.From.String(),
			A:      result.Transition.To.String(),
			Motivo: result.Transition.Reason,
		},
	}
}

func toItems(reqs []ItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(reqs))
	for _, req := range reqs {
		item, err := order.NewItem(
			req.ProductoID, req.Nombre, req.Precio, req.Descuento,
			req.Marca, req.Modelo, req.Cantidad, req.Imagen,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
