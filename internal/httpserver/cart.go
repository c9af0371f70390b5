package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
	authmw "github.com/Skotchmaster/grocery_shop/internal/middleware/auth"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

type CartHTTP struct {
	Svc *service.StorefrontService
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	crt, err := h.Svc.Cart(ctx, authmw.UserID(c))
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, crt.Quote(nil))
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := bind(c, l, "add_to_cart_error", &req); err != nil {
		return err
	}

	crt, err := h.Svc.AddToCart(ctx, authmw.UserID(c), req)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}
	l.Info("add_to_cart_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, crt.Quote(nil))
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	var req transport.SetQuantityRequest
	if err := bind(c, l, "set_quantity_error", &req); err != nil {
		return err
	}

	crt, err := h.Svc.SetCartQuantity(ctx, authmw.UserID(c), c.Param("product_id"), req.Quantity)
	if err != nil {
		return fail(l, "set_quantity_error", err)
	}
	return c.JSON(http.StatusOK, crt.Quote(nil))
}

func (h *CartHTTP) Decrement(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.decrement")

	crt, err := h.Svc.DecrementCart(ctx, authmw.UserID(c), c.Param("product_id"))
	if err != nil {
		return fail(l, "decrement_error", err)
	}
	return c.JSON(http.StatusOK, crt.Quote(nil))
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	crt, err := h.Svc.RemoveFromCart(ctx, authmw.UserID(c), c.Param("product_id"))
	if err != nil {
		return fail(l, "remove_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, crt.Quote(nil))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Svc.ClearCart(ctx, authmw.UserID(c)); err != nil {
		return fail(l, "clear_cart_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Quote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.quote")

	q, err := h.Svc.Quote(ctx, authmw.UserID(c), c.QueryParam("village_id"))
	if err != nil {
		return fail(l, "quote_error", err)
	}
	return c.JSON(http.StatusOK, q)
}
