package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

var ErrUserAlreadyExist = errors.New("user already exist")

// CreateUserIfNotExists inserts u unless the email is taken.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrUserAlreadyExist
	}
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *GormRepo) AddRefresh(ctx context.Context, jti, userID string, exp time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: exp.Unix(),
	}).Error
}

// RefreshUsable reports whether jti exists, is not revoked and not expired.
func (r *GormRepo) RefreshUsable(ctx context.Context, jti string) (bool, error) {
	var t models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&t).Error; err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !t.Revoked && t.ExpiresAt >= time.Now().Unix(), nil
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, jti string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}
