package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/grocery_shop/internal/cart"
	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
	"github.com/Skotchmaster/grocery_shop/internal/whatsapp"
)

type CheckoutService struct {
	Repo          *repo.GormRepo
	Carts         cart.Store
	Live          live.Publisher
	WhatsAppPhone string
}

type CheckoutResult struct {
	Order        *models.Order
	WhatsAppLink string
}

func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req transport.CheckoutRequest) (*CheckoutResult, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.place_order", "user_id", userID)

	if err := validate(&req); err != nil {
		return nil, err
	}

	status, err := s.Repo.GetShopStatus(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Open {
		if status.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrShopClosed, status.Message)
		}
		return nil, ErrShopClosed
	}

	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	village, err := s.Repo.GetVillage(ctx, req.VillageID)
	if err != nil {
		return nil, mapRepoErr(err, "village")
	}

	q := c.Quote(village)
	order := &models.Order{
		UserID:         userID,
		CustomerName:   req.CustomerName,
		Phone:          req.Phone,
		Village:        village.Name,
		Address:        req.Address,
		Items:          make([]models.OrderItem, 0, len(c.Items)),
		Subtotal:       q.Subtotal,
		DeliveryCharge: q.DeliveryCharge,
		TotalAmount:    q.Total,
	}
	for _, it := range c.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("place_order_error", "reason", "cannot save order", "error", err)
		return nil, err
	}

	if err := s.Carts.Delete(ctx, userID); err != nil {
		l.Warn("place_order_warning", "reason", "cannot clear cart", "error", err)
	}

	s.Live.Publish(ctx, live.Change{Collection: live.Orders, Type: live.Created, ID: order.ID})

	l.Info("order_placed", "order_id", order.ID, "total", order.TotalAmount)
	return &CheckoutResult{
		Order:        order,
		WhatsAppLink: whatsapp.OrderLink(s.WhatsAppPhone, *order),
	}, nil
}

func (s *CheckoutService) MyOrders(ctx context.Context, userID string, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID, offset, limit)
}

func (s *CheckoutService) ContactLink() string {
	return whatsapp.ContactLink(s.WhatsAppPhone)
}
