// Package http exposes the order lifecycle over REST. Handlers translate
// wire requests into commands and queries; every business rule lives
// below this layer.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/auth"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler   commands.CreateOrderCommandHandler
	changeStatusHandler  commands.ChangeOrderStatusCommandHandler
	cancelOrderHandler   commands.CancelOrderCommandHandler
	updateAddressHandler commands.UpdateOrderAddressCommandHandler
	deleteOrderHandler   commands.DeleteOrderCommandHandler

	getOrderHandler       queries.GetOrderQueryHandler
	getOrdersHandler      queries.GetOrdersQueryHandler
	getHistoryHandler     queries.GetStatusHistoryQueryHandler
	getStatusStatsHandler queries.GetStatusStatsQueryHandler
	getOrderStatsHandler  queries.GetOrderStatsQueryHandler
}

// NewServer creates an HTTP server over the given command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	updateAddressHandler commands.UpdateOrderAddressCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getHistoryHandler queries.GetStatusHistoryQueryHandler,
	getStatusStatsHandler queries.GetStatusStatsQueryHandler,
	getOrderStatsHandler queries.GetOrderStatsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:    createOrderHandler,
		changeStatusHandler:   changeStatusHandler,
		cancelOrderHandler:    cancelOrderHandler,
		updateAddressHandler:  updateAddressHandler,
		deleteOrderHandler:    deleteOrderHandler,
		getOrderHandler:       getOrderHandler,
		getOrdersHandler:      getOrdersHandler,
		getHistoryHandler:     getHistoryHandler,
		getStatusStatsHandler: getStatusStatsHandler,
		getOrderStatsHandler:  getOrderStatsHandler,
	}
}

// RegisterRoutes mounts every order route behind the JWT middleware.
// The fixed paths ("stats", "status/stats") are registered before the
// ":id" routes so echo resolves them first.
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret []byte) {
	g := e.Group("/api/orders", JWTAuth(jwtSecret))

	g.POST("", s.CreateOrder)
	g.GET("", s.GetOrders)
	g.GET("/stats", s.GetOrderStats)
	g.GET("/status/stats", s.GetStatusStats)
	g.GET("/:id", s.GetOrder)
	g.PUT("/:id", s.UpdateOrder)
	g.DELETE("/:id", s.DeleteOrder)
	g.PUT("/:id/status", s.ChangeOrderStatus)
	g.GET("/:id/status/history", s.GetStatusHistory)
	g.PUT("/:id/cancel", s.CancelOrder)
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	ownerID := req.UserID
	if ownerID == "" {
		ownerID = principal.ID()
	}

	items, err := toItems(req.Productos)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		ownerID, req.Email, req.Direccion, req.Nombre, items, principal,
	)
	if err != nil {
		return writeError(c, err)
	}

	created, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toOrderResponseFromAggregate(created))
}

// GetOrders handles GET /api/orders.
func (s *Server) GetOrders(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filter := queries.OrderFilter{UserID: c.QueryParam("user_id")}
	if estado := c.QueryParam("estado"); estado != "" {
		status, err := order.ParseStatus(estado)
		if err != nil {
			return writeError(c, err)
		}
		filter.Status = &status
	}
	if raw := c.QueryParam("fecha_desde"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return writeError(c, errs.NewValueIsInvalidErrorWithCause("fecha_desde", err))
		}
		filter.PaidFrom = &from
	}
	if raw := c.QueryParam("fecha_hasta"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return writeError(c, errs.NewValueIsInvalidErrorWithCause("fecha_hasta", err))
		}
		filter.PaidTo = &to
	}

	query, err := queries.NewGetOrdersQuery(
		page, limit, filter, c.QueryParam("sort"), c.QueryParam("order") == "desc", principal,
	)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.getOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	data := make([]OrderResponse, 0, len(result.Data))
	for _, o := range result.Data {
		data = append(data, toOrderResponse(o))
	}

	return c.JSON(http.StatusOK, PagedOrdersResponse{
		Total: result.Total,
		Pages: result.Pages,
		First: result.First,
		Next:  result.Next,
		Prev:  result.Prev,
		Data:  data,
	})
}

// GetOrder handles GET /api/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	principal, orderID, err := s.principalAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, principal)
	if err != nil {
		return writeError(c, err)
	}

	resp, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponse(resp))
}

// UpdateOrder handles PUT /api/orders/:id. Only the delivery address is
// writable here; status edits must use the status route.
func (s *Server) UpdateOrder(c echo.Context) error {
	principal, orderID, err := s.principalAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateOrderRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	cmd, err := commands.NewUpdateOrderAddressCommand(orderID, req.Direccion, principal)
	if err != nil {
		return writeError(c, err)
	}

	updated, err := s.updateAddressHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, toOrderResponseFromAggregate(updated))
}

// DeleteOrder handles DELETE /api/orders/:id.
func (s *Server) DeleteOrder(c echo.Context) error {
	principal, orderID, err := s.principalAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, principal)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.deleteOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"mensaje": "orden eliminada"})
}

// ChangeOrderStatus handles PUT /api/orders/:id/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	principal, orderID, err := s.principalAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req ChangeStatusRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	requested, err := order.ParseStatus(req.Estado)
	if err != nil {
		return writeError(c, err)
	}

	var deliveredAt *time.Time
	if req.FechaEntrega != "" {
		ts, parseErr := time.Parse(time.RFC3339, req.FechaEntrega)
		if parseErr != nil {
			return writeError(c, errs.NewValueIsInvalidErrorWithCause("fecha_entrega", parseErr))
		}
		deliveredAt = &ts
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, requested, req.Motivo, deliveredAt, principal)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.changeStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	metrics.TransitionsTotal.WithLabelValues(
		result.Transition.From.String(), result.Transition.To.String()).Inc()

	return c.JSON(http.StatusOK, toChangeStatusResponse(result))
}

// CancelOrder handles PUT /api/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	principal, orderID, err := s.principalAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req CancelOrderRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Motivo, principal)
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.cancelOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		// Rejected cancellations additionally report which states allow
		// cancelling at all, so the client can explain it to the user.
		var transitionErr *errs.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			body := transitionBody(transitionErr)
			cancellable := order.CancellableStatuses()
			body.EstadosCancelables = make([]string, 0, len(cancellable))
			for _, status := range cancellable {
				body.EstadosCancelables = append(body.EstadosCancelables, status.String())
			}
			return c.JSON(http.StatusBadRequest, body)
		}
		return writeError(c, err)
	}

	metrics.TransitionsTotal.WithLabelValues(
		result.Transition.From.String(), result.Transition.To.String()).Inc()

	return c.JSON(http.StatusOK, toChangeStatusResponse(result))
}

// GetStatusHistory handles GET /api/orders/:id/status/history.
func (s *Server) GetStatusHistory(c echo.Context) error {
	principal, orderID, err := s.principalAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	query, err := queries.NewGetStatusHistoryQuery(orderID, principal)
	if err != nil {
		return writeError(c, err)
	}

	entries, err := s.getHistoryHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, HistoryEntryResponse{
			ID:             entry.ID,
			EstadoAnterior: entry.Previous.String(),
			EstadoNuevo:    entry.Next.String(),
			Motivo:         entry.Reason,
			ChangedBy:      entry.ChangedBy,
			ChangedAt:      entry.ChangedAt,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetStatusStats handles GET /api/orders/status/stats.
func (s *Server) GetStatusStats(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}

	query, err := queries.NewGetStatusStatsQuery(principal)
	if err != nil {
		return writeError(c, err)
	}

	stats, err := s.getStatusStatsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	resp := StatusStatsResponse{
		PorEstado:       make([]StateStatsResponse, 0, len(stats.ByState)),
		TendenciaMensal: make([]MonthlyCountResponse, 0, len(stats.MonthlyTrend)),
		TiempoPorEstado: make([]StateDwellResponse, 0, len(stats.DwellHours)),
	}
	for _, stat := range stats.ByState {
		resp.PorEstado = append(resp.PorEstado, StateStatsResponse{
			Estado:   stat.State.String(),
			Cantidad: stat.Count,
			Suma:     stat.TotalSum,
			Promedio: stat.TotalAvg,
		})
	}
	for _, cell := range stats.MonthlyTrend {
		resp.TendenciaMensal = append(resp.TendenciaMensal, MonthlyCountResponse{
			Mes:      cell.Month,
			Estado:   cell.State.String(),
			Cantidad: cell.Count,
		})
	}
	for _, dwell := range stats.DwellHours {
		resp.TiempoPorEstado = append(resp.TiempoPorEstado, StateDwellResponse{
			Estado:        dwell.State.String(),
			HorasPromedio: dwell.AvgHours,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetOrderStats handles GET /api/orders/stats.
func (s *Server) GetOrderStats(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}

	query, err := queries.NewGetOrderStatsQuery(principal)
	if err != nil {
		return writeError(c, err)
	}

	stats, err := s.getOrderStatsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	resp := OrderStatsResponse{
		TotalOrdenes:  stats.OrderCount,
		GastoTotal:    stats.TotalSpend,
		GastoPromedio: stats.AvgSpend,
		PorEstado:     make([]StateCountResponse, 0, len(stats.ByState)),
		TopProductos:  make([]ProductCountResponse, 0, len(stats.TopProducts)),
	}
	for _, count := range stats.ByState {
		resp.PorEstado = append(resp.PorEstado, StateCountResponse{
			Estado:   count.State.String(),
			Cantidad: count.Count,
		})
	}
	for _, product := range stats.TopProducts {
		resp.TopProductos = append(resp.TopProductos, ProductCountResponse{
			Nombre:   product.Name,
			Unidades: product.Units,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// principalAndID extracts the authenticated principal and the :id path
// parameter shared by the per-order routes.
func (s *Server) principalAndID(c echo.Context) (auth.Principal, int64, error) {
	principal, ok := principalFrom(c)
	if !ok {
		return auth.Principal{}, 0, errs.NewForbiddenError("access order routes", "anonymous")
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return auth.Principal{}, 0, errs.NewValueIsInvalidErrorWithCause("orden_id", err)
	}

	return principal, orderID, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

// transitionBody builds the self-correcting 400 body for rejected
// transitions: the actual current state plus its legal successors.
func transitionBody(err *errs.InvalidTransitionError) ErrorResponse {
	return ErrorResponse{
		Error:               err.Error(),
		EstadoActual:        err.Current,
		TransicionesValidas: err.Allowed,
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unexpected
// is logged and returned as an opaque 500.
func writeError(c echo.Context, err error) error {
	var transitionErr *errs.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return c.JSON(http.StatusBadRequest, transitionBody(transitionErr))
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.Logger().Errorf("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
