package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swingeats/swingeats/internal/models"
)

func (r *GormRepo) ListBays(ctx context.Context) ([]models.Bay, error) {
	bays := []models.Bay{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&bays).Error; err != nil {
		return nil, err
	}
	return bays, nil
}

func (r *GormRepo) GetBay(ctx context.Context, id uint) (*models.Bay, error) {
	var bay models.Bay
	if err := r.DB.WithContext(ctx).First(&bay, id).Error; err != nil {
		return nil, err
	}
	return &bay, nil
}

// EnsureBays inserts bays that do not exist yet and leaves existing rows alone.
func (r *GormRepo) EnsureBays(ctx context.Context, bays []models.Bay) error {
	if len(bays) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&bays).Error
}

func (r *GormRepo) UpdateBayStatus(ctx context.Context, id uint, status models.BayStatus) (*models.Bay, error) {
	var bay models.Bay
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Bay{}).Where("id = ?", id).Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&bay, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &bay, nil
}

// SetBayStatusIf moves a bay to status only while it is in one of from.
// It reports whether the row changed.
func (r *GormRepo) SetBayStatusIf(ctx context.Context, id uint, from []models.BayStatus, status models.BayStatus) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Bay{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
