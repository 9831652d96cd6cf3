package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/swingeats/swingeats/internal/models"
)

func (r *GormRepo) GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// transitionItem applies updates only while the item is in one of from.
// The WHERE clause makes concurrent transitions race-safe: the loser sees
// zero rows and gets ErrStatusMismatch.
func transitionItem(tx *gorm.DB, id uint, from []models.ItemStatus, updates map[string]any) (*models.OrderItem, error) {
	res := tx.Model(&models.OrderItem{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}

	var item models.OrderItem
	if err := tx.First(&item, id).Error; err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return &item, ErrStatusMismatch
	}
	return &item, nil
}

func (r *GormRepo) transition(ctx context.Context, id uint, from []models.ItemStatus, updates map[string]any) (*models.OrderItem, error) {
	var out *models.OrderItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := transitionItem(tx, id, from, updates)
		if err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FireOrderItem moves a NEW item to COOKING. The predicted ready time is
// firedAt plus the item's cook seconds; the station is re-copied from the
// menu item when it still exists.
func (r *GormRepo) FireOrderItem(ctx context.Context, id uint, firedAt time.Time) (*models.OrderItem, error) {
	var out *models.OrderItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.OrderItem
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}
		if current.Status != models.ItemNew {
			return ErrStatusMismatch
		}

		station := current.Station
		var menu models.MenuItem
		err := tx.Select("station").First(&menu, current.MenuItemID).Error
		switch {
		case err == nil && menu.Station != "":
			station = menu.Station
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		predicted := firedAt.Add(time.Duration(current.CookSeconds) * time.Second)
		item, err := transitionItem(tx, id, []models.ItemStatus{models.ItemNew}, map[string]any{
			"status":             models.ItemCooking,
			"station":            station,
			"fired_at":           firedAt,
			"predicted_ready_at": predicted,
			"updated_at":         firedAt,
		})
		if err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkOrderItemReady records the observed ready moment. NEW is accepted
// for items that never needed firing.
func (r *GormRepo) MarkOrderItemReady(ctx context.Context, id uint, readyAt time.Time) (*models.OrderItem, error) {
	return r.transition(ctx, id, []models.ItemStatus{models.ItemCooking, models.ItemNew}, map[string]any{
		"status":          models.ItemReady,
		"actual_ready_at": readyAt,
		"updated_at":      readyAt,
	})
}

func (r *GormRepo) MarkOrderItemDelivered(ctx context.Context, id uint, deliveredAt time.Time) (*models.OrderItem, error) {
	return r.transition(ctx, id, []models.ItemStatus{models.ItemReady, models.ItemCooking}, map[string]any{
		"status":       models.ItemDelivered,
		"delivered_at": deliveredAt,
		"completed":    true,
		"updated_at":   deliveredAt,
	})
}

func (r *GormRepo) VoidOrderItem(ctx context.Context, id uint, now time.Time) (*models.OrderItem, error) {
	return r.transition(ctx, id, []models.ItemStatus{models.ItemNew, models.ItemCooking, models.ItemReady}, map[string]any{
		"status":     models.ItemVoided,
		"updated_at": now,
	})
}

// VoidOpenItems voids every non-terminal item of an order.
func (r *GormRepo) VoidOpenItems(ctx context.Context, orderID uint, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ? AND status IN ?", orderID, []models.ItemStatus{models.ItemNew, models.ItemCooking, models.ItemReady}).
		Updates(map[string]any{
			"status":     models.ItemVoided,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// CookingItemsDue lists COOKING items whose predicted ready time has passed.
func (r *GormRepo) CookingItemsDue(ctx context.Context, now time.Time) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND predicted_ready_at <= ?", models.ItemCooking, now).
		Order("predicted_ready_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
