package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/timing"
	"github.com/swingeats/swingeats/internal/transport"
)

// OrderService owns every order and item state change. Transitions are
// conditional updates in the store, so concurrent callers need no locking
// here.
type OrderService struct {
	Store    Store
	Notifier Notifier
	Events   EventPublisher
	Timing   timing.Calculator
	Log      *slog.Logger
}

func NewOrderService(store Store, notifier Notifier, events EventPublisher, calc timing.Calculator, log *slog.Logger) *OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if calc.Clock == nil {
		calc = timing.NewCalculator(calc.Config, nil)
	}
	return &OrderService{Store: store, Notifier: notifier, Events: events, Timing: calc, Log: log}
}

func (s *OrderService) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

func (s *OrderService) notifier() Notifier {
	if s.Notifier == nil {
		return nopNotifier{}
	}
	return s.Notifier
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (view *OrderView, err error) {
	defer func() { s.record("create_order", err) }()

	orderType := models.OrderType(strings.ToLower(strings.TrimSpace(req.OrderType)))
	if orderType == "" {
		orderType = models.OrderTypeCustomer
	}
	if orderType != models.OrderTypeCustomer && orderType != models.OrderTypeServer {
		return nil, validationErr("unknown order type %q", req.OrderType)
	}
	if req.BayID == 0 {
		return nil, validationErr("bayId is required")
	}
	if len(req.Items) == 0 {
		return nil, validationErr("order has no items")
	}
	ids := make([]uint, 0, len(req.Items))
	for i, it := range req.Items {
		if it.MenuItemID == 0 {
			return nil, validationErr("item %d: menuItemId is required", i)
		}
		if it.Quantity <= 0 {
			return nil, validationErr("item %d: quantity must be positive", i)
		}
		ids = append(ids, it.MenuItemID)
	}

	if _, err := s.Store.GetBay(ctx, req.BayID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErr("unknown bay %d", req.BayID)
		}
		return nil, storeErr(err, "bay %d", req.BayID)
	}
	menu, err := s.Store.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "menu items")
	}

	now := s.Timing.Now()
	items := make([]models.OrderItem, 0, len(req.Items))
	cooks := make([]int, 0, len(req.Items))
	var total int64
	for i, it := range req.Items {
		m, ok := menu[it.MenuItemID]
		if !ok || !m.Active {
			return nil, validationErr("item %d: menu item %d is not available", i, it.MenuItemID)
		}
		cook := m.PrepSeconds
		if cook <= 0 {
			cook = s.Timing.Config.DefaultCookSeconds
		}
		item := models.OrderItem{
			MenuItemID:     m.ID,
			Name:           m.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: m.PriceCents,
			Station:        m.Station,
			Status:         models.ItemNew,
			CookSeconds:    cook,
			Notes:          strings.TrimSpace(it.Notes),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		total += item.LineTotalCents()
		cooks = append(cooks, cook)
		items = append(items, item)
	}

	estimate := s.Timing.ExpectedReady(now, cooks)
	order := &models.Order{
		BayID:                 req.BayID,
		Status:                models.OrderNew,
		OrderType:             orderType,
		SpecialInstructions:   strings.TrimSpace(req.SpecialInstructions),
		TotalCents:            total,
		EstimatedCompletionAt: &estimate,
		StatusChangedAt:       now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := s.Store.CreateOrder(ctx, order, items); err != nil {
		return nil, storeErr(err, "create order")
	}

	bay, _ := s.settleBay(ctx, order.BayID, order.Status)

	v := orderView(s.Timing, *order)
	s.logger().Info("order_created", "order_id", order.ID, "bay_id", order.BayID, "items", len(items), "total_cents", total)

	s.notifier().SendToBay(order.BayID, transport.MsgOrderUpdated, map[string]any{"order": v, "bay": bay})
	s.broadcastActive(ctx)
	s.publish(ctx, OrderEvent{
		Type:    EventOrderCreated,
		OrderID: order.ID,
		BayID:   order.BayID,
		Status:  string(order.Status),
		At:      now,
	})
	return &v, nil
}

// OrderStatusChange is the payload of an orderStatusUpdate message.
type OrderStatusChange struct {
	OrderID        uint               `json:"orderId"`
	BayID          uint               `json:"bayId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus"`
	Bay            *models.Bay        `json:"bay,omitempty"`
}

// UpdateOrderStatus sets an order's status directly. Allowed moves:
//
//	NEW, COOKING, READY -> another open status, SERVED, CANCELLED
//	SERVED              -> DINING, PAID, CANCELLED
//	DINING              -> PAID, CANCELLED
//	PAID, CANCELLED     -> nothing
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (view *OrderView, err error) {
	defer func() { s.record("update_order_status", err) }()

	status = models.OrderStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, validationErr("unknown order status %q", status)
	}
	current, err := s.Store.GetOrderWithItems(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order %d", id)
	}
	if !canMove(current.Status, status) {
		return nil, fmt.Errorf("%w: order %d is %s, cannot become %s", ErrInvalidTransition, id, current.Status, status)
	}

	now := s.Timing.Now()
	if _, err := s.Store.UpdateOrderStatus(ctx, id, []models.OrderStatus{current.Status}, status, now); err != nil {
		return nil, storeErr(err, "order %d", id)
	}
	if status == models.OrderCancelled {
		n, err := s.Store.VoidOpenItems(ctx, id, now)
		if err != nil {
			s.logger().Warn("void_items_failed", "order_id", id, "error", err)
		} else if n > 0 {
			s.logger().Info("items_voided", "order_id", id, "count", n)
		}
	}
	var bay *models.Bay
	if settled, changed := s.settleBay(ctx, current.BayID, status); changed {
		bay = settled
	}

	updated, err := s.Store.GetOrderWithItems(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order %d", id)
	}
	v := orderView(s.Timing, *updated)
	s.logger().Info("order_status_changed", "order_id", id, "bay_id", updated.BayID, "from", current.Status, "to", status)

	s.notifier().SendToBay(updated.BayID, transport.MsgOrderStatusUpdate, OrderStatusChange{
		OrderID:        id,
		BayID:          updated.BayID,
		Status:         status,
		PreviousStatus: current.Status,
		Bay:            bay,
	})
	s.broadcastActive(ctx)
	s.publish(ctx, OrderEvent{
		Type:           EventOrderStatusChanged,
		OrderID:        id,
		BayID:          updated.BayID,
		Status:         string(status),
		PreviousStatus: string(current.Status),
		At:             now,
	})
	return &v, nil
}

func (s *OrderService) broadcastActive(ctx context.Context) {
	orders, err := s.GetActiveOrders(ctx)
	if err != nil {
		s.logger().Warn("orders_snapshot_failed", "error", err)
		return
	}
	s.notifier().Broadcast(transport.MsgOrdersUpdate, orders)
}

func (s *OrderService) GetActiveOrders(ctx context.Context) ([]OrderView, error) {
	orders, err := s.Store.GetActiveOrders(ctx)
	if err != nil {
		return nil, storeErr(err, "active orders")
	}
	return orderViews(s.Timing, orders), nil
}

// Snapshot feeds freshly connected sockets.
func (s *OrderService) Snapshot(ctx context.Context) (any, error) {
	return s.GetActiveOrders(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*OrderView, error) {
	order, err := s.Store.GetOrderWithItems(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order %d", id)
	}
	v := orderView(s.Timing, *order)
	return &v, nil
}

func (s *OrderService) GetOrdersByBay(ctx context.Context, bayID uint) ([]OrderView, error) {
	if _, err := s.Store.GetBay(ctx, bayID); err != nil {
		return nil, storeErr(err, "bay %d", bayID)
	}
	orders, err := s.Store.GetOrdersByBay(ctx, bayID)
	if err != nil {
		return nil, storeErr(err, "orders of bay %d", bayID)
	}
	return orderViews(s.Timing, orders), nil
}

func (s *OrderService) ListBays(ctx context.Context) ([]models.Bay, error) {
	bays, err := s.Store.ListBays(ctx)
	return bays, storeErr(err, "bays")
}

func (s *OrderService) GetBay(ctx context.Context, id uint) (*models.Bay, error) {
	bay, err := s.Store.GetBay(ctx, id)
	return bay, storeErr(err, "bay %d", id)
}

// ListMenu returns the items guests can order.
func (s *OrderService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.Store.ListMenuItems(ctx, true)
	return items, storeErr(err, "menu")
}
