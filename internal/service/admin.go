package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

// ProductIndexer mirrors product writes into the search index.
type ProductIndexer interface {
	Put(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id string) error
}

type AdminService struct {
	Repo    *repo.GormRepo
	Live    live.Publisher
	Indexer ProductIndexer
}

func (s *AdminService) notify(ctx context.Context, collection, typ, id string) {
	s.Live.Publish(ctx, live.Change{Collection: collection, Type: typ, ID: id})
}

func (s *AdminService) index(ctx context.Context, p *models.Product, removeID string) {
	if s.Indexer == nil {
		return
	}
	var err error
	if p != nil {
		err = s.Indexer.Put(ctx, *p)
	} else {
		err = s.Indexer.Remove(ctx, removeID)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_sync_failed", "error", err)
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*transport.Dashboard, error) {
	products, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	return &transport.Dashboard{TotalProducts: products, TotalOrders: orders}, nil
}

func (s *AdminService) Products(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *AdminService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	p := &models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Unit:     req.Unit,
		ImageURL: req.ImageURL,
		Category: req.Category,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.index(ctx, p, "")
	s.notify(ctx, live.Products, live.Created, p.ID)
	return p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id string, req transport.ProductRequest) (*models.Product, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "product")
	}
	p.Name = req.Name
	p.Price = req.Price
	p.Unit = req.Unit
	p.ImageURL = req.ImageURL
	p.Category = req.Category
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.index(ctx, p, "")
	s.notify(ctx, live.Products, live.Updated, p.ID)
	return p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return mapRepoErr(err, "product")
	}
	s.index(ctx, nil, id)
	s.notify(ctx, live.Products, live.Deleted, id)
	return nil
}

func (s *AdminService) Villages(ctx context.Context) ([]models.Village, error) {
	return s.Repo.ListVillages(ctx)
}

func (s *AdminService) CreateVillage(ctx context.Context, req transport.VillageRequest) (*models.Village, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	v := &models.Village{Name: req.Name, DistanceKm: req.DistanceKm, DeliveryCharge: req.DeliveryCharge}
	if err := s.Repo.CreateVillage(ctx, v); err != nil {
		return nil, err
	}
	s.notify(ctx, live.Villages, live.Created, v.ID)
	return v, nil
}

func (s *AdminService) DeleteVillage(ctx context.Context, id string) error {
	if err := s.Repo.DeleteVillage(ctx, id); err != nil {
		return mapRepoErr(err, "village")
	}
	s.notify(ctx, live.Villages, live.Deleted, id)
	return nil
}

func (s *AdminService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

// CompleteOrder marks the order done by removing it.
func (s *AdminService) CompleteOrder(ctx context.Context, id string) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return mapRepoErr(err, "order")
	}
	s.notify(ctx, live.Orders, live.Deleted, id)
	return nil
}

func (s *AdminService) Banners(ctx context.Context) ([]models.Banner, error) {
	return s.Repo.ListBanners(ctx)
}

func (s *AdminService) CreateBanner(ctx context.Context, req transport.BannerRequest) (*models.Banner, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	b := &models.Banner{Title: req.Title, ImageURL: req.ImageURL, Link: req.Link}
	if err := s.Repo.CreateBanner(ctx, b); err != nil {
		return nil, err
	}
	s.notify(ctx, live.Banners, live.Created, b.ID)
	return b, nil
}

func (s *AdminService) DeleteBanner(ctx context.Context, id string) error {
	if err := s.Repo.DeleteBanner(ctx, id); err != nil {
		return mapRepoErr(err, "banner")
	}
	s.notify(ctx, live.Banners, live.Deleted, id)
	return nil
}

func (s *AdminService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *AdminService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	existing, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, req.Name) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, c.Name)
		}
	}
	c := &models.Category{Name: req.Name, Icon: req.Icon}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, live.Categories, live.Created, c.ID)
	return c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return mapRepoErr(err, "category")
	}
	s.notify(ctx, live.Categories, live.Deleted, id)
	return nil
}

func (s *AdminService) SetShopStatus(ctx context.Context, req transport.ShopStatusRequest) (*models.ShopStatus, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	st, err := s.Repo.SetShopStatus(ctx, *req.Open, req.Message)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, live.ShopStatus, live.Updated, st.ID)
	return st, nil
}
