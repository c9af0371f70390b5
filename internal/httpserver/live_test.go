package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

// streamWriter is a ResponseWriter safe to read while a handler writes.
type streamWriter struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
	code   int
}

func newStreamWriter() *streamWriter { return &streamWriter{header: http.Header{}} }

func (w *streamWriter) Header() http.Header { return w.header }

func (w *streamWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.code = code
}

func (w *streamWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(b)
}

func (w *streamWriter) Flush() {}

func (w *streamWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestFragments(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)

	rec := v.do(http.MethodGet, "/fragments/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No products found. Please add from Admin.")

	assert.Equal(t, http.StatusNotFound, v.do(http.MethodGet, "/fragments/orders", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodGet, "/fragments/admin/orders", "", nil).Code)

	rec = v.do(http.MethodPost, "/api/v1/admin/villages", `{"name":"Amethi","distance_km":4,"delivery_charge":20}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = v.do(http.MethodGet, "/fragments/admin/villages", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "4 km - Delivery Charge: ₹20")

	rec = v.do(http.MethodGet, "/fragments/villages", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<option")
}

func TestStream_RerendersOnChange(t *testing.T) {
	v := newEnv(t)
	h := &LiveHTTP{Hub: v.d.Hub, Renderer: v.d.Renderer, Store: v.d.Storefront, Admin: v.d.Admin}

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/live/products", nil).WithContext(ctx)
	w := newStreamWriter()
	c := v.e.NewContext(req, w)
	c.SetParamNames("collection")
	c.SetParamValues(live.Products)

	done := make(chan error, 1)
	go func() { done <- h.Stream(false)(c) }()

	require.Eventually(t, func() bool { return v.d.Hub.Subscribers(live.Products) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return strings.Contains(w.String(), "No products found") }, time.Second, 5*time.Millisecond)

	_, err := v.d.Admin.CreateProduct(context.Background(), transport.ProductRequest{
		Name: "Jaggery", Price: 60, Unit: "kg", Category: "Sweets",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return strings.Contains(w.String(), "Jaggery") }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop")
	}

	out := w.String()
	assert.Equal(t, 2, strings.Count(out, "event: products\n"))
	assert.Equal(t, "text/event-stream", w.Header().Get(echo.HeaderContentType))
	assert.Zero(t, v.d.Hub.Subscribers(live.Products))
}

func TestStream_UnknownCollection(t *testing.T) {
	v := newEnv(t)
	rec := v.do(http.MethodGet, "/api/v1/live/orders", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFragments_DashboardAndCart(t *testing.T) {
	v := newEnv(t)
	admin := v.admin(t)
	user := v.user(t)

	assert.Equal(t, http.StatusNotFound, v.do(http.MethodGet, "/fragments/dashboard", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, v.do(http.MethodGet, "/fragments/cart", "", nil).Code)

	rec := v.do(http.MethodGet, "/fragments/cart", "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your cart is empty.")

	rec = v.do(http.MethodPost, "/api/v1/admin/products", `{"name":"Rice","price":50,"unit":"kg","category":"Grains"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct{ ID string }
	decode(t, rec, &product)
	rec = v.do(http.MethodPost, "/api/v1/admin/villages", `{"name":"Amethi","distance_km":4,"delivery_charge":20}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var village struct{ ID string }
	decode(t, rec, &village)

	rec = v.do(http.MethodPost, "/api/v1/cart", `{"product_id":"`+product.ID+`","quantity":2}`, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = v.do(http.MethodGet, "/fragments/cart?village_id="+village.ID, "", user)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Rice x 2 = ₹100")
	assert.Contains(t, body, "Delivery: ₹20")
	assert.Contains(t, body, "Total: ₹120")

	assert.Equal(t, http.StatusNotFound, v.do(http.MethodGet, "/fragments/cart?village_id=missing", "", user).Code)

	rec = v.do(http.MethodGet, "/fragments/admin/dashboard", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span id="total-products">1</span>`)
	assert.Contains(t, rec.Body.String(), `<span id="total-orders">0</span>`)
}

func TestStream_DashboardFollowsProductsAndOrders(t *testing.T) {
	v := newEnv(t)
	h := &LiveHTTP{Hub: v.d.Hub, Renderer: v.d.Renderer, Store: v.d.Storefront, Admin: v.d.Admin}

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/live/dashboard", nil).WithContext(ctx)
	w := newStreamWriter()
	c := v.e.NewContext(req, w)
	c.SetParamNames("collection")
	c.SetParamValues("dashboard")

	done := make(chan error, 1)
	go func() { done <- h.Stream(true)(c) }()

	require.Eventually(t, func() bool {
		return v.d.Hub.Subscribers(live.Products) == 1 && v.d.Hub.Subscribers(live.Orders) == 1
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return strings.Contains(w.String(), `id="total-products">0<`) }, time.Second, 5*time.Millisecond)

	_, err := v.d.Admin.CreateProduct(context.Background(), transport.ProductRequest{
		Name: "Jaggery", Price: 60, Unit: "kg", Category: "Sweets",
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return strings.Contains(w.String(), `id="total-products">1<`) }, time.Second, 5*time.Millisecond)

	v.d.Hub.Publish(context.Background(), live.Change{Collection: live.Orders, Type: live.Created})
	require.Eventually(t, func() bool { return strings.Count(w.String(), "event: dashboard\n") == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop")
	}
	assert.Zero(t, v.d.Hub.Subscribers(live.Products))
	assert.Zero(t, v.d.Hub.Subscribers(live.Orders))
}
