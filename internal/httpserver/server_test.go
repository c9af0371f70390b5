package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/grocery_shop/internal/cart"
	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/render"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/testutil"
)

const csrfToken = "test-csrf-token"

type env struct {
	e    *echo.Echo
	d    *Deps
	repo *repo.GormRepo
}

func newEnv(t *testing.T) *env {
	gdb := testutil.InitTestDB(t)
	r := &repo.GormRepo{DB: gdb}
	carts := cart.NewMemoryStore()
	hub := live.NewHub()

	auth := &service.AuthService{Repo: r, JWTSecret: []byte("access"), RefreshSecret: []byte("refresh")}
	d := &Deps{
		DB:         gdb,
		Auth:       auth,
		Storefront: &service.StorefrontService{Repo: r, Carts: carts},
		Checkout:   &service.CheckoutService{Repo: r, Carts: carts, Live: hub, WhatsAppPhone: "918090315246"},
		Admin:      &service.AdminService{Repo: r, Live: hub},
		Hub:        hub,
		Renderer:   render.MustNew(),
		JWTSecret:  auth.JWTSecret,
	}

	e := echo.New()
	Register(e, d)
	return &env{e: e, d: d, repo: r}
}

func (v *env) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: csrfToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

func (v *env) login(t *testing.T, email, password string) []*http.Cookie {
	body := `{"email":"` + email + `","password":"` + password + `"}`
	rec := v.do(http.MethodPost, "/api/v1/auth/login", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func (v *env) user(t *testing.T) []*http.Cookie {
	rec := v.do(http.MethodPost, "/api/v1/auth/register", `{"email":"asha@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return v.login(t, "asha@example.com", "secret1")
}

func (v *env) admin(t *testing.T) []*http.Cookie {
	require.NoError(t, v.d.Auth.EnsureAdmin(context.Background(), "admin@shop.in", "adminpass"))
	return v.login(t, "admin@shop.in", "adminpass")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func TestHealth(t *testing.T) {
	v := newEnv(t)
	assert.Equal(t, http.StatusOK, v.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, v.do(http.MethodGet, "/health/ready", "", nil).Code)
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	v := newEnv(t)
	cookies := v.user(t)
	require.Len(t, cookies, 2)

	rec := v.do(http.MethodPost, "/api/v1/auth/register", `{"email":"asha@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = v.do(http.MethodPost, "/api/v1/auth/login", `{"email":"asha@example.com","password":"wrongpass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")

	rec = v.do(http.MethodPost, "/api/v1/auth/register", `{"email":"bad","password":"1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email must be a valid email")

	rec = v.do(http.MethodGet, "/api/v1/auth/me", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)

	rec = v.do(http.MethodPost, "/api/v1/auth/logout", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var refresh *http.Cookie
	for _, c := range cookies {
		if c.Name == "refreshToken" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	rec = v.do(http.MethodPost, "/api/v1/auth/refresh", "", []*http.Cookie{refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)
	user := v.user(t)

	rec := v.do(http.MethodPost, "/api/v1/admin/products", `{"name":"Rice","price":50,"unit":"kg","category":"Grains"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct{ ID string }
	decode(t, rec, &product)

	rec = v.do(http.MethodPost, "/api/v1/admin/villages", `{"name":"Amethi","distance_km":4,"delivery_charge":20}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var village struct{ ID string }
	decode(t, rec, &village)

	rec = v.do(http.MethodPost, "/api/v1/cart", `{"product_id":"`+product.ID+`","quantity":3}`, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = v.do(http.MethodPost, "/api/v1/cart/"+product.ID+"/decrement", "", user)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = v.do(http.MethodGet, "/api/v1/cart/quote?village_id="+village.ID, "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	var q cart.Quote
	decode(t, rec, &q)
	assert.Equal(t, uint(2), q.Count)
	assert.Equal(t, 100.0, q.Subtotal)
	assert.Equal(t, 120.0, q.Total)

	body := `{"customer_name":"Asha","phone":"9876543210","village_id":"` + village.ID + `","address":"Near the temple"}`
	rec = v.do(http.MethodPost, "/api/v1/checkout", body, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		OrderID      string  `json:"order_id"`
		Total        float64 `json:"total_amount"`
		WhatsAppLink string  `json:"whatsapp_link"`
	}
	decode(t, rec, &out)
	assert.Equal(t, 120.0, out.Total)
	assert.True(t, strings.HasPrefix(out.WhatsAppLink, "https://wa.me/918090315246?text="))

	rec = v.do(http.MethodGet, "/api/v1/cart", "", user)
	decode(t, rec, &q)
	assert.Zero(t, q.Count)

	rec = v.do(http.MethodGet, "/api/v1/orders", "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), out.OrderID)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = v.do(http.MethodPost, "/api/v1/checkout", body, user)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")

	rec = v.do(http.MethodGet, "/api/v1/admin/dashboard", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_products":1,"total_orders":1}`, rec.Body.String())

	rec = v.do(http.MethodDelete, "/api/v1/admin/orders/"+out.OrderID, "", admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCheckout_ShopClosed(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)
	user := v.user(t)

	rec := v.do(http.MethodPut, "/api/v1/admin/shop", `{"open":false,"message":"Closed for Holi"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = v.do(http.MethodPost, "/api/v1/admin/products", `{"name":"Rice","price":50,"unit":"kg","category":"Grains"}`, admin)
	var product struct{ ID string }
	decode(t, rec, &product)
	v.do(http.MethodPost, "/api/v1/cart", `{"product_id":"`+product.ID+`"}`, user)

	rec = v.do(http.MethodPost, "/api/v1/checkout", `{"customer_name":"Asha","phone":"9876543210","village_id":"x","address":"a"}`, user)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Closed for Holi")
}

func TestAdmin_ShopStatusRequiresOpenFlag(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)

	rec := v.do(http.MethodPut, "/api/v1/admin/shop", `{"message":"typo, no flag"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "open is required")

	rec = v.do(http.MethodGet, "/api/v1/shop", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st struct{ Open bool }
	decode(t, rec, &st)
	assert.True(t, st.Open)
}

func TestAdmin_Access(t *testing.T) {
	v := newEnv(t)
	user := v.user(t)

	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodGet, "/api/v1/admin/dashboard", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, v.do(http.MethodGet, "/api/v1/admin/dashboard", "", user).Code)
	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodGet, "/api/v1/cart", "", nil).Code)
}

func TestAdmin_ValidationAndNotFound(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)

	rec := v.do(http.MethodPost, "/api/v1/admin/products", `{"name":"  ","price":10,"unit":"kg","category":"Grains"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")

	rec = v.do(http.MethodDelete, "/api/v1/admin/villages/missing", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "village not found")

	rec = v.do(http.MethodPost, "/api/v1/admin/categories", `{"name":"Grains"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = v.do(http.MethodPost, "/api/v1/admin/categories", `{"name":"GRAINS"}`, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStorefront_FilterAndSearch(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)
	for _, p := range []string{
		`{"name":"Basmati Rice","price":90,"unit":"kg","category":"Grains"}`,
		`{"name":"Toor Dal","price":120,"unit":"kg","category":"Pulses"}`,
	} {
		require.Equal(t, http.StatusCreated, v.do(http.MethodPost, "/api/v1/admin/products", p, admin).Code)
	}

	rec := v.do(http.MethodGet, "/api/v1/products?category=Pulses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Toor Dal")
	assert.NotContains(t, rec.Body.String(), "Basmati")

	rec = v.do(http.MethodGet, "/api/v1/search?q=rice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Basmati Rice")
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = v.do(http.MethodGet, "/api/v1/contact", "", nil)
	assert.JSONEq(t, `{"link":"https://wa.me/918090315246"}`, rec.Body.String())
}
