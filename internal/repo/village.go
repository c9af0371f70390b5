package repo

import (
	"context"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

func (r *GormRepo) ListVillages(ctx context.Context) ([]models.Village, error) {
	var items []models.Village
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetVillage(ctx context.Context, id string) (*models.Village, error) {
	var v models.Village
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

func (r *GormRepo) CreateVillage(ctx context.Context, v *models.Village) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) DeleteVillage(ctx context.Context, id string) error {
	return deleted(r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Village{}))
}
