package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	authmw "github.com/Skotchmaster/grocery_shop/internal/middleware/auth"
	"github.com/Skotchmaster/grocery_shop/internal/middleware/csrf"
	"github.com/Skotchmaster/grocery_shop/internal/render"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/validation"
)

type Deps struct {
	DB           *gorm.DB
	Auth         *service.AuthService
	Storefront   *service.StorefrontService
	Checkout     *service.CheckoutService
	Admin        *service.AdminService
	Hub          *live.Hub
	Renderer     *render.Renderer
	JWTSecret    []byte
	CookieSecure bool
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = validation.Echo{}
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			logging.FromContext(c.Request().Context()).Error("ready_check_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := &authmw.AuthMiddleware{JWTSecret: d.JWTSecret, Auth: d.Auth, Secure: d.CookieSecure}
	csrfMW := csrf.Middleware(csrf.Config{Secure: d.CookieSecure})

	authH := &AuthHTTP{Svc: d.Auth, Secure: d.CookieSecure}
	storeH := &StoreHTTP{Svc: d.Storefront, Checkout: d.Checkout}
	cartH := &CartHTTP{Svc: d.Storefront}
	orderH := &OrderHTTP{Svc: d.Checkout}
	adminH := &AdminHTTP{Svc: d.Admin}
	liveH := &LiveHTTP{Hub: d.Hub, Renderer: d.Renderer, Store: d.Storefront, Admin: d.Admin}

	api := e.Group("/api/v1")

	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)
	api.POST("/auth/logout", authH.Logout)
	api.GET("/auth/me", authH.Me, authMW.RequireAuth)

	api.GET("/products", storeH.Products)
	api.GET("/products/:id", storeH.Product)
	api.GET("/search", storeH.Search)
	api.GET("/categories", storeH.Categories)
	api.GET("/banners", storeH.Banners)
	api.GET("/villages", storeH.Villages)
	api.GET("/shop", storeH.ShopStatus)
	api.GET("/contact", storeH.Contact)
	api.GET("/live/:collection", liveH.Stream(false))

	user := api.Group("", authMW.RequireAuth)
	user.GET("/cart", cartH.Get)
	user.POST("/cart", cartH.Add)
	user.DELETE("/cart", cartH.Clear)
	user.GET("/cart/quote", cartH.Quote)
	user.PATCH("/cart/:product_id", cartH.SetQuantity)
	user.POST("/cart/:product_id/decrement", cartH.Decrement)
	user.DELETE("/cart/:product_id", cartH.Remove)
	user.POST("/checkout", orderH.Checkout)
	user.GET("/orders", orderH.MyOrders)

	admin := api.Group("/admin", authMW.RequireAdmin, csrfMW)
	admin.GET("/dashboard", adminH.Dashboard)
	admin.GET("/products", adminH.Products)
	admin.POST("/products", adminH.CreateProduct)
	admin.PUT("/products/:id", adminH.UpdateProduct)
	admin.DELETE("/products/:id", adminH.DeleteProduct)
	admin.GET("/villages", adminH.Villages)
	admin.POST("/villages", adminH.CreateVillage)
	admin.DELETE("/villages/:id", adminH.DeleteVillage)
	admin.GET("/orders", adminH.Orders)
	admin.DELETE("/orders/:id", adminH.CompleteOrder)
	admin.GET("/banners", adminH.Banners)
	admin.POST("/banners", adminH.CreateBanner)
	admin.DELETE("/banners/:id", adminH.DeleteBanner)
	admin.GET("/categories", adminH.Categories)
	admin.POST("/categories", adminH.CreateCategory)
	admin.DELETE("/categories/:id", adminH.DeleteCategory)
	admin.PUT("/shop", adminH.SetShopStatus)
	admin.GET("/live/:collection", liveH.Stream(true))

	e.GET("/fragments/cart", liveH.Cart, authMW.RequireAuth)
	e.GET("/fragments/:collection", liveH.Fragment(false))
	e.GET("/fragments/admin/:collection", liveH.Fragment(true), authMW.RequireAdmin)
}
