// Package cart holds the per-user shopping cart and its totals.
package cart

import (
	"errors"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

var ErrItemNotFound = errors.New("item not in cart")

type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	ImageURL  string  `json:"image_url"`
	Quantity  uint    `json:"quantity"`
}

func (i Item) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) index(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line or appends a new one.
func (c *Cart) Add(p models.Product, qty uint) Item {
	if qty < 1 {
		qty = 1
	}
	if i := c.index(p.ID); i >= 0 {
		c.Items[i].Quantity += qty
		return c.Items[i]
	}
	it := Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Unit:      p.Unit,
		ImageURL:  p.ImageURL,
		Quantity:  qty,
	}
	c.Items = append(c.Items, it)
	return it
}

// Decrement removes one unit; the line goes away with its last unit.
// It reports whether the line was removed.
func (c *Cart) Decrement(productID string) (bool, error) {
	i := c.index(productID)
	if i < 0 {
		return false, ErrItemNotFound
	}
	if c.Items[i].Quantity > 1 {
		c.Items[i].Quantity--
		return false, nil
	}
	c.removeAt(i)
	return true, nil
}

func (c *Cart) SetQuantity(productID string, qty int) error {
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	c.Items[i].Quantity = uint(qty)
	return nil
}

func (c *Cart) Remove(productID string) error {
	i := c.index(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.removeAt(i)
	return nil
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Count() uint {
	var n uint
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.LineTotal()
	}
	return sum
}

type Quote struct {
	Items          []Item  `json:"items"`
	Count          uint    `json:"count"`
	Subtotal       float64 `json:"subtotal"`
	Village        string  `json:"village,omitempty"`
	DeliveryCharge float64 `json:"delivery_charge"`
	Total          float64 `json:"total"`
}

// Total is the subtotal plus the village delivery charge; a nil village
// means no delivery charge yet.
func (c *Cart) Total(v *models.Village) float64 {
	return c.Quote(v).Total
}

func (c *Cart) Quote(v *models.Village) Quote {
	q := Quote{
		Items:    c.Items,
		Count:    c.Count(),
		Subtotal: c.Subtotal(),
	}
	if q.Items == nil {
		q.Items = []Item{}
	}
	if v != nil {
		q.Village = v.Name
		q.DeliveryCharge = v.DeliveryCharge
	}
	q.Total = q.Subtotal + q.DeliveryCharge
	return q
}
