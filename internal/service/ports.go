package service

import (
	"context"
	"time"

	"github.com/swingeats/swingeats/internal/models"
)

// Store is the persistence gateway the engine runs on. repo.GormRepo
// implements it.
type Store interface {
	ListBays(ctx context.Context) ([]models.Bay, error)
	GetBay(ctx context.Context, id uint) (*models.Bay, error)
	UpdateBayStatus(ctx context.Context, id uint, status models.BayStatus) (*models.Bay, error)
	SetBayStatusIf(ctx context.Context, id uint, from []models.BayStatus, status models.BayStatus) (bool, error)

	ListMenuItems(ctx context.Context, activeOnly bool) ([]models.MenuItem, error)
	GetMenuItemsByIDs(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error)

	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error)
	GetOrderWithItems(ctx context.Context, id uint) (*models.Order, error)
	GetActiveOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByBay(ctx context.Context, bayID uint) ([]models.Order, error)
	DiningOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, from []models.OrderStatus, to models.OrderStatus, now time.Time) (*models.Order, error)

	GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error)
	FireOrderItem(ctx context.Context, id uint, firedAt time.Time) (*models.OrderItem, error)
	MarkOrderItemReady(ctx context.Context, id uint, readyAt time.Time) (*models.OrderItem, error)
	MarkOrderItemDelivered(ctx context.Context, id uint, deliveredAt time.Time) (*models.OrderItem, error)
	VoidOrderItem(ctx context.Context, id uint, now time.Time) (*models.OrderItem, error)
	VoidOpenItems(ctx context.Context, orderID uint, now time.Time) (int64, error)
	CookingItemsDue(ctx context.Context, now time.Time) ([]models.OrderItem, error)
}

// Notifier fans state changes out to connected clients. Calls must not
// block on slow consumers.
type Notifier interface {
	Broadcast(msgType string, data any)
	SendToBay(bayID uint, msgType string, data any)
}

// EventPublisher ships lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, any)       {}
func (nopNotifier) SendToBay(uint, string, any) {}
