package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/grocery_shop/internal/cart"
	"github.com/Skotchmaster/grocery_shop/internal/catalog"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

// ProductSearcher is the optional full-text index.
type ProductSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type StorefrontService struct {
	Repo     *repo.GormRepo
	Carts    cart.Store
	Searcher ProductSearcher
}

func (s *StorefrontService) Products(ctx context.Context, f catalog.Filter) ([]models.Product, error) {
	all, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(all, f), nil
}

func (s *StorefrontService) Product(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "product")
	}
	return p, nil
}

// Search uses the full-text index when configured and falls back to the
// in-memory substring filter otherwise or when the index fails.
func (s *StorefrontService) Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error) {
	if s.Searcher != nil {
		total, items, err := s.Searcher.Search(ctx, q, from, size)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to catalog filter", "error", err)
	}

	items, err := s.Products(ctx, catalog.Filter{Query: q})
	if err != nil {
		return 0, nil, err
	}
	total := int64(len(items))
	if from < 0 {
		from = 0
	}
	if size < 0 {
		size = 0
	}
	if from >= len(items) {
		return total, []models.Product{}, nil
	}
	end := from + size
	if end > len(items) || end < from {
		end = len(items)
	}
	return total, items[from:end], nil
}

func (s *StorefrontService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *StorefrontService) Banners(ctx context.Context) ([]models.Banner, error) {
	return s.Repo.ListBanners(ctx)
}

func (s *StorefrontService) Villages(ctx context.Context) ([]models.Village, error) {
	return s.Repo.ListVillages(ctx)
}

func (s *StorefrontService) ShopStatus(ctx context.Context) (*models.ShopStatus, error) {
	return s.Repo.GetShopStatus(ctx)
}

func (s *StorefrontService) Cart(ctx context.Context, userID string) (*cart.Cart, error) {
	return s.Carts.Load(ctx, userID)
}

func (s *StorefrontService) AddToCart(ctx context.Context, userID string, req transport.AddToCartRequest) (*cart.Cart, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, mapRepoErr(err, "product")
	}

	return s.Carts.Update(ctx, userID, func(c *cart.Cart) error {
		c.Add(*p, req.Quantity)
		return nil
	})
}

func (s *StorefrontService) DecrementCart(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	return s.mutateCart(ctx, userID, func(c *cart.Cart) error {
		_, err := c.Decrement(productID)
		return err
	})
}

func (s *StorefrontService) SetCartQuantity(ctx context.Context, userID, productID string, qty int) (*cart.Cart, error) {
	return s.mutateCart(ctx, userID, func(c *cart.Cart) error {
		return c.SetQuantity(productID, qty)
	})
}

func (s *StorefrontService) RemoveFromCart(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	return s.mutateCart(ctx, userID, func(c *cart.Cart) error {
		return c.Remove(productID)
	})
}

func (s *StorefrontService) ClearCart(ctx context.Context, userID string) error {
	return s.Carts.Delete(ctx, userID)
}

func (s *StorefrontService) mutateCart(ctx context.Context, userID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	c, err := s.Carts.Update(ctx, userID, fn)
	if errors.Is(err, cart.ErrItemNotFound) {
		return nil, fmt.Errorf("cart item %w", ErrNotFound)
	}
	return c, err
}

// Quote prices the cart for delivery to villageID; an empty villageID
// quotes without delivery.
func (s *StorefrontService) Quote(ctx context.Context, userID, villageID string) (cart.Quote, error) {
	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		return cart.Quote{}, err
	}
	if villageID == "" {
		return c.Quote(nil), nil
	}
	v, err := s.Repo.GetVillage(ctx, villageID)
	if err != nil {
		return cart.Quote{}, mapRepoErr(err, "village")
	}
	return c.Quote(v), nil
}
