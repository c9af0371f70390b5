package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/grocery_shop/internal/cart"
	"github.com/Skotchmaster/grocery_shop/internal/models"
	"github.com/Skotchmaster/grocery_shop/internal/transport"
)

func TestProducts_EmptyAndPlaceholder(t *testing.T) {
	r := MustNew()

	out, err := r.String(Products, []models.Product{})
	require.NoError(t, err)
	assert.Contains(t, out, "No products found. Please add from Admin.")

	out, err = r.String(Products, []models.Product{{ID: "p1", Name: "Rice", Price: 40, Unit: "kg"}})
	require.NoError(t, err)
	assert.Contains(t, out, PlaceholderImage)
	assert.Contains(t, out, "₹40 / kg")
	assert.NotContains(t, out, "No products found")
}

func TestProducts_EscapesNames(t *testing.T) {
	r := MustNew()
	out, err := r.String(AdminProducts, []models.Product{{ID: "p1", Name: "<script>x</script>", Price: 1, Unit: "pc"}})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestVillages_Line(t *testing.T) {
	r := MustNew()
	out, err := r.String(Villages, []models.Village{{ID: "v1", Name: "Amethi", DistanceKm: 2.5, DeliveryCharge: 20}})
	require.NoError(t, err)
	assert.Contains(t, out, "2.5 km - Delivery Charge: ₹20")
}

func TestOrders_Card(t *testing.T) {
	r := MustNew()
	orders := []models.Order{
		{
			ID:           "0c9a1b2c-aaaa-bbbb-cccc-1234abcdef99",
			CustomerName: "Asha",
			Address:      "Main road",
			Items: []models.OrderItem{
				{Name: "Rice", Quantity: 2},
				{Name: "Dal", Quantity: 1},
			},
			TotalAmount:    120,
			DeliveryCharge: 20,
		},
		{ID: "abcdef", CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Village: "Sitapur"},
	}
	out, err := r.String(Orders, orders)
	require.NoError(t, err)

	assert.Contains(t, out, "ID: CDEF99")
	assert.Contains(t, out, "ID: ABCDEF")
	assert.Contains(t, out, "Just now")
	assert.Contains(t, out, "Not Selected")
	assert.Contains(t, out, "Sitapur")
	assert.Contains(t, out, "<span>Rice x 2</span>, <span>Dal x 1</span>")
	assert.Contains(t, out, "₹120 (Delivery: ₹20)")
	assert.Equal(t, 1, strings.Count(out, "Just now"))
}

func TestCart_Summary(t *testing.T) {
	r := MustNew()
	c := &cart.Cart{}
	c.Add(models.Product{ID: "p1", Name: "Rice", Price: 27.5, Unit: "kg"}, 2)

	out, err := r.String(Cart, c.Quote(&models.Village{Name: "Amethi", DeliveryCharge: 20}))
	require.NoError(t, err)
	assert.Contains(t, out, "Rice x 2 = ₹55")
	assert.Contains(t, out, "Total: ₹75")

	out, err = r.String(Cart, (&cart.Cart{}).Quote(nil))
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestRender_UnknownFragment(t *testing.T) {
	r := MustNew()
	_, err := r.String("nope", nil)
	assert.Error(t, err)
	assert.False(t, r.Has("nope"))
	assert.True(t, r.Has(ShopStatus))
}

func TestDashboard_Counters(t *testing.T) {
	r := MustNew()
	out, err := r.String(Dashboard, &transport.Dashboard{TotalProducts: 12, TotalOrders: 3})
	require.NoError(t, err)
	assert.Contains(t, out, `<span id="total-products">12</span>`)
	assert.Contains(t, out, `<span id="total-orders">3</span>`)
}
