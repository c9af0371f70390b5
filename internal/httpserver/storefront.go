package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/catalog"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/util"
)

type StoreHTTP struct {
	Svc      *service.StorefrontService
	Checkout *service.CheckoutService
}

func filterFrom(c echo.Context) catalog.Filter {
	return catalog.Filter{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
	}
}

func (h *StoreHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.products")

	items, err := h.Svc.Products(ctx, filterFrom(c))
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *StoreHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.product")

	p, err := h.Svc.Product(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *StoreHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *StoreHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "store.categories"), "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *StoreHTTP) Banners(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Banners(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "store.banners"), "get_banners_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *StoreHTTP) Villages(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Villages(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "store.villages"), "get_villages_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *StoreHTTP) ShopStatus(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.Svc.ShopStatus(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "store.shop_status"), "get_shop_status_error", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StoreHTTP) Contact(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"link": h.Checkout.ContactLink(),
	})
}
