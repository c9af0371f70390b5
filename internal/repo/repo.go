package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type GormRepo struct {
	DB *gorm.DB
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
