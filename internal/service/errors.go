package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/validation"
)

var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrShopClosed         = errors.New("shop is closed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

func validate(req any) error {
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

func mapRepoErr(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
