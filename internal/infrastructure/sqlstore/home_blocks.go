package sqlstore

import (
	"context"

	"github.com/vape-shop-api/internal/domain"
	"gorm.io/gorm"
)

// HomeBlockRepo stores homepage section settings.
type HomeBlockRepo struct {
	db *gorm.DB
}

func NewHomeBlockRepo(db *gorm.DB) *HomeBlockRepo {
	return &HomeBlockRepo{db: db}
}

// List returns every stored block ordered by position.
func (r *HomeBlockRepo) List(ctx context.Context) ([]domain.HomeBlock, error) {
	var out []domain.HomeBlock
	err := r.db.WithContext(ctx).Order("position").Find(&out).Error
	return out, err
}

// SaveAll upserts blocks in one transaction.
func (r *HomeBlockRepo) SaveAll(ctx context.Context, blocks []domain.HomeBlock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range blocks {
			if err := tx.Save(&blocks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
