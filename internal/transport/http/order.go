package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/service"
	"github.com/swingeats/swingeats/internal/transport"
	"github.com/swingeats/swingeats/pkg/logging"
)

type OrdersHTTP struct {
	Svc *service.OrderService
}

func (h *OrdersHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("order_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "order_create_error", err)
	}

	l.Info("order_create_success", "order_id", order.ID, "bay_id", order.BayID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrdersHTTP) GetActiveOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.active")

	orders, err := h.Svc.GetActiveOrders(ctx)
	if err != nil {
		return fail(l, "get_active_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrdersHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c)
	if err != nil {
		l.Warn("order_status_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateOrderStatus(ctx, id, models.OrderStatus(req.Status))
	if err != nil {
		return fail(l, "order_status_error", err)
	}

	l.Info("order_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

type itemMove func(ctx context.Context, id uint) (*service.ItemChange, error)

func (h *OrdersHTTP) moveItem(c echo.Context, event string, move itemMove) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_item."+event)

	id, err := parseID(c)
	if err != nil {
		l.Warn(event+"_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	change, err := move(ctx, id)
	if err != nil {
		return fail(l, event+"_error", err)
	}

	l.Info(event+"_success", "item_id", id, "order_id", change.Order.ID, "order_status", change.Order.Status)
	return c.JSON(http.StatusOK, change)
}

func (h *OrdersHTTP) FireItem(c echo.Context) error {
	return h.moveItem(c, "fire", h.Svc.FireItem)
}

func (h *OrdersHTTP) MarkReady(c echo.Context) error {
	return h.moveItem(c, "ready", h.Svc.MarkReady)
}

func (h *OrdersHTTP) MarkDelivered(c echo.Context) error {
	return h.moveItem(c, "deliver", h.Svc.MarkDelivered)
}

func (h *OrdersHTTP) VoidItem(c echo.Context) error {
	return h.moveItem(c, "void", h.Svc.VoidItem)
}
