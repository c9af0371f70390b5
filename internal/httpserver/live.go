package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_shop/internal/catalog"
	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	authmw "github.com/Skotchmaster/grocery_shop/internal/middleware/auth"
	"github.com/Skotchmaster/grocery_shop/internal/render"
	"github.com/Skotchmaster/grocery_shop/internal/service"
)

const keepAlive = 25 * time.Second

type LiveHTTP struct {
	Hub      *live.Hub
	Renderer *render.Renderer
	Store    *service.StorefrontService
	Admin    *service.AdminService
}

// view reloads one collection and names the fragment that renders it.
// watch lists the collections whose changes re-render it; empty means the
// view's own collection.
type view struct {
	fragment string
	load     func(ctx context.Context, f catalog.Filter) (any, error)
	watch    []string
}

const dashboardView = "dashboard"

func (h *LiveHTTP) views(admin bool) map[string]view {
	v := map[string]view{
		live.Products: {fragment: render.Products, load: func(ctx context.Context, f catalog.Filter) (any, error) {
			return h.Store.Products(ctx, f)
		}},
		live.Villages: {fragment: render.VillageOptions, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
			return h.Store.Villages(ctx)
		}},
		live.Banners: {fragment: render.Banners, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
			return h.Store.Banners(ctx)
		}},
		live.Categories: {fragment: render.Categories, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
			return h.Store.Categories(ctx)
		}},
		live.ShopStatus: {fragment: render.ShopStatus, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
			return h.Store.ShopStatus(ctx)
		}},
	}
	if !admin {
		return v
	}

	v[live.Products] = view{fragment: render.AdminProducts, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
		return h.Admin.Products(ctx)
	}}
	v[live.Villages] = view{fragment: render.Villages, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
		return h.Admin.Villages(ctx)
	}}
	v[live.Orders] = view{fragment: render.Orders, load: func(ctx context.Context, _ catalog.Filter) (any, error) {
		return h.Admin.Orders(ctx)
	}}
	v[dashboardView] = view{
		fragment: render.Dashboard,
		load: func(ctx context.Context, _ catalog.Filter) (any, error) {
			return h.Admin.Dashboard(ctx)
		},
		watch: []string{live.Products, live.Orders},
	}
	return v
}

func (h *LiveHTTP) html(ctx context.Context, v view, f catalog.Filter) (string, error) {
	data, err := v.load(ctx, f)
	if err != nil {
		return "", err
	}
	return h.Renderer.String(v.fragment, data)
}

// Fragment renders the current state of a collection once.
func (h *LiveHTTP) Fragment(admin bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		collection := c.Param("collection")
		l := logging.FromContext(ctx).With("handler", "live.fragment", "collection", collection)

		v, ok := h.views(admin)[collection]
		if !ok {
			l.Warn("fragment_error", "status", 404, "reason", "unknown collection")
			return echo.NewHTTPError(http.StatusNotFound, "unknown collection")
		}

		out, err := h.html(ctx, v, filterFrom(c))
		if err != nil {
			return fail(l, "fragment_error", err)
		}
		return c.HTML(http.StatusOK, out)
	}
}

// Cart renders the signed-in user's cart, priced for the village_id query
// parameter when given.
func (h *LiveHTTP) Cart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "live.cart")

	q, err := h.Store.Quote(ctx, authmw.UserID(c), c.QueryParam("village_id"))
	if err != nil {
		return fail(l, "fragment_error", err)
	}
	out, err := h.Renderer.String(render.Cart, q)
	if err != nil {
		return fail(l, "fragment_error", err)
	}
	return c.HTML(http.StatusOK, out)
}

// Stream is a Server-Sent Events feed. It sends the rendered collection on
// connect and again after every change, each frame replacing the last.
func (h *LiveHTTP) Stream(admin bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		collection := c.Param("collection")
		l := logging.FromContext(ctx).With("handler", "live.stream", "collection", collection)

		v, ok := h.views(admin)[collection]
		if !ok {
			l.Warn("stream_error", "status", 404, "reason", "unknown collection")
			return echo.NewHTTPError(http.StatusNotFound, "unknown collection")
		}
		f := filterFrom(c)

		watch := v.watch
		if len(watch) == 0 {
			watch = []string{collection}
		}
		changes, cancel := h.Hub.Subscribe(watch...)
		defer cancel()

		// streams outlive the server write timeout
		_ = http.NewResponseController(c.Response().Writer).SetWriteDeadline(time.Time{})

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set(echo.HeaderCacheControl, "no-cache")
		res.Header().Set(echo.HeaderConnection, "keep-alive")
		res.Header().Set("X-Accel-Buffering", "no")
		res.WriteHeader(http.StatusOK)

		send := func() error {
			out, err := h.html(ctx, v, f)
			if err != nil {
				l.Error("stream_render_error", "error", err)
				return err
			}
			if err := writeEvent(res, collection, out); err != nil {
				return err
			}
			res.Flush()
			return nil
		}

		if err := send(); err != nil {
			return nil
		}
		l.Info("stream_opened")

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				l.Info("stream_closed")
				return nil
			case _, ok := <-changes:
				if !ok {
					return nil
				}
				if err := send(); err != nil {
					return nil
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
					return nil
				}
				res.Flush()
			}
		}
	}
}

func writeEvent(w *echo.Response, event, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
