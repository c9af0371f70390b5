package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
	authmw "github.com/Skotchmaster/grocery_shop/internal/middleware/auth"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
	"github.com/Skotchmaster/grocery_shop/internal/util"
	"github.com/Skotchmaster/grocery_shop/internal/whatsapp"
)

type OrderHTTP struct {
	Svc *service.CheckoutService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	var req transport.CheckoutRequest
	if err := bind(c, l, "checkout_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.PlaceOrder(ctx, authmw.UserID(c), req)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", res.Order.ID)
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{
		OrderID:      res.Order.ID,
		ShortID:      whatsapp.ShortID(res.Order.ID),
		Subtotal:     res.Order.Subtotal,
		Delivery:     res.Order.DeliveryCharge,
		Total:        res.Order.TotalAmount,
		WhatsAppLink: res.WhatsAppLink,
	})
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.MyOrders(ctx, authmw.UserID(c), offset, limit)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}
