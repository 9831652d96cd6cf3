package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swingeats/swingeats/internal/models"
)

func (r *GormRepo) ListMenuItems(ctx context.Context, activeOnly bool) ([]models.MenuItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.MenuItem{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	items := []models.MenuItem{}
	if err := q.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetMenuItemsByIDs returns the items that exist, keyed by id. Unknown ids
// are simply absent from the map.
func (r *GormRepo) GetMenuItemsByIDs(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	out := make(map[uint]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var items []models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// UpsertMenuItem keys on the item name and reloads the stored row, so
// item.ID is reliable after an update as well as an insert.
func (r *GormRepo) UpsertMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "description", "price_cents", "station", "prep_seconds", "active"}),
		}).Create(item).Error; err != nil {
			return err
		}
		var stored models.MenuItem
		if err := tx.Where("name = ?", item.Name).First(&stored).Error; err != nil {
			return err
		}
		*item = stored
		return nil
	})
}
