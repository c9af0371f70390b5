package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.Svc.Dashboard(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "admin.dashboard"), "dashboard_error", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Products(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "admin.products"), "get_products_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req transport.ProductRequest
	if err := bind(c, l, "product_create_error", &req); err != nil {
		return err
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product")

	var req transport.ProductRequest
	if err := bind(c, l, "product_update_error", &req); err != nil {
		return err
	}

	p, err := h.Svc.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "product_update_error", err)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	if err := h.Svc.DeleteProduct(ctx, c.Param("id")); err != nil {
		return fail(l, "product_delete_error", err)
	}
	l.Info("delete_product_success", "product_id", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Villages(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Villages(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "admin.villages"), "get_villages_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) CreateVillage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_village")

	var req transport.VillageRequest
	if err := bind(c, l, "village_create_error", &req); err != nil {
		return err
	}

	v, err := h.Svc.CreateVillage(ctx, req)
	if err != nil {
		return fail(l, "village_create_error", err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *AdminHTTP) DeleteVillage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_village")

	if err := h.Svc.DeleteVillage(ctx, c.Param("id")); err != nil {
		return fail(l, "village_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Orders(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Orders(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "admin.orders"), "get_orders_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) CompleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.complete_order")

	if err := h.Svc.CompleteOrder(ctx, c.Param("id")); err != nil {
		return fail(l, "order_complete_error", err)
	}
	l.Info("order_completed", "order_id", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Banners(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Banners(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "admin.banners"), "get_banners_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) CreateBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_banner")

	var req transport.BannerRequest
	if err := bind(c, l, "banner_create_error", &req); err != nil {
		return err
	}

	b, err := h.Svc.CreateBanner(ctx, req)
	if err != nil {
		return fail(l, "banner_create_error", err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *AdminHTTP) DeleteBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_banner")

	if err := h.Svc.DeleteBanner(ctx, c.Param("id")); err != nil {
		return fail(l, "banner_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(logging.FromContext(ctx).With("handler", "admin.categories"), "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	var req transport.CategoryRequest
	if err := bind(c, l, "category_create_error", &req); err != nil {
		return err
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "category_create_error", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *AdminHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_category")

	if err := h.Svc.DeleteCategory(ctx, c.Param("id")); err != nil {
		return fail(l, "category_delete_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) SetShopStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.set_shop_status")

	var req transport.ShopStatusRequest
	if err := bind(c, l, "shop_status_error", &req); err != nil {
		return err
	}

	st, err := h.Svc.SetShopStatus(ctx, req)
	if err != nil {
		return fail(l, "shop_status_error", err)
	}
	l.Info("shop_status_changed", "open", st.Open)
	return c.JSON(http.StatusOK, st)
}
