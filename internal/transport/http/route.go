package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	OrdersHandler *OrdersHTTP
	SearchHandler *SearchHTTP
	WS            http.Handler
	Metrics       http.Handler
	Ready         func(c echo.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}
	if d.WS != nil {
		e.GET("/ws", echo.WrapHandler(d.WS))
	}

	v1 := e.Group("/api/v1")

	bays := v1.Group("/bays")
	bays.GET("", d.OrdersHandler.ListBays)
	bays.GET("/:id", d.OrdersHandler.GetBay)
	bays.GET("/:id/orders", d.OrdersHandler.GetBayOrders)

	menu := v1.Group("/menu")
	menu.GET("", d.OrdersHandler.ListMenu)
	menu.GET("/search", d.SearchHandler.SearchMenu)

	orders := v1.Group("/orders")
	orders.POST("", d.OrdersHandler.CreateOrder)
	orders.GET("/active", d.OrdersHandler.GetActiveOrders)
	orders.GET("/:id", d.OrdersHandler.GetOrder)
	orders.PUT("/:id/status", d.OrdersHandler.UpdateOrderStatus)

	items := v1.Group("/order-items")
	items.POST("/:id/fire", d.OrdersHandler.FireItem)
	items.POST("/:id/ready", d.OrdersHandler.MarkReady)
	items.POST("/:id/deliver", d.OrdersHandler.MarkDelivered)
	items.POST("/:id/void", d.OrdersHandler.VoidItem)
}
