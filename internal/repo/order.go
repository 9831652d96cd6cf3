package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/swingeats/swingeats/internal/models"
)

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}

// CreateOrder inserts the order and its items in one transaction. On
// success order.Items holds the stored items.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderWithItems(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items", itemsByID).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetActiveOrders(ctx context.Context) ([]models.Order, error) {
	return r.GetOrdersByStatus(ctx, models.OpenOrderStatuses...)
}

func (r *GormRepo) GetOrdersByStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	orders := []models.Order{}
	if len(statuses) == 0 {
		return orders, nil
	}
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsByID).
		Where("status IN ?", statuses).
		Order("created_at ASC, id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrdersByBay(ctx context.Context, bayID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsByID).
		Where("bay_id = ?", bayID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DiningOrdersBefore lists DINING orders that entered that status at or
// before cutoff.
func (r *GormRepo) DiningOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND status_changed_at <= ?", models.OrderDining, cutoff).
		Order("status_changed_at ASC, id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus sets the status while the row is in one of from. An
// empty from makes the update unconditional.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, from []models.OrderStatus, to models.OrderStatus, now time.Time) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Order{}).Where("id = ?", id)
		if len(from) > 0 {
			q = q.Where("status IN ?", from)
		}
		res := q.Updates(map[string]any{
			"status":            to,
			"status_changed_at": now,
			"updated_at":        now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&order, id).Error; err != nil {
				return err
			}
			return ErrStatusMismatch
		}
		return tx.First(&order, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
