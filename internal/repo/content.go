package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

func (r *GormRepo) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var items []models.Banner
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateBanner(ctx context.Context, b *models.Banner) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) DeleteBanner(ctx context.Context, id string) error {
	return deleted(r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{}))
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id string) error {
	return deleted(r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}))
}

// GetShopStatus returns the stored status, or an open shop when none was
// ever written.
func (r *GormRepo) GetShopStatus(ctx context.Context) (*models.ShopStatus, error) {
	var s models.ShopStatus
	err := r.DB.WithContext(ctx).Where("id = ?", models.ShopStatusID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ShopStatus{ID: models.ShopStatusID, Open: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) SetShopStatus(ctx context.Context, open bool, message string) (*models.ShopStatus, error) {
	s := models.ShopStatus{
		ID:        models.ShopStatusID,
		Open:      open,
		Message:   message,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.DB.WithContext(ctx).Save(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
