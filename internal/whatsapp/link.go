// Package whatsapp builds wa.me deep links used to forward orders.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

const baseURL = "https://wa.me/"

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ContactLink(phone string) string {
	return baseURL + digits(phone)
}

func Link(phone, text string) string {
	if text == "" {
		return ContactLink(phone)
	}
	return ContactLink(phone) + "?text=" + url.QueryEscape(text)
}

// ShortID is the trailing six characters of an id, upper-cased.
func ShortID(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}

func Money(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("₹%d", int64(v))
	}
	return fmt.Sprintf("₹%.2f", v)
}

func OrderSummary(o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%s\n", ShortID(o.ID))
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.Phone)
	village := o.Village
	if village == "" {
		village = "Not Selected"
	}
	fmt.Fprintf(&b, "Village: %s\n", village)
	fmt.Fprintf(&b, "Address: %s\n", o.Address)
	b.WriteString("Items:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x %d = %s\n", it.Name, it.Quantity, Money(it.LineTotal()))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", Money(o.Subtotal))
	fmt.Fprintf(&b, "Delivery: %s\n", Money(o.DeliveryCharge))
	fmt.Fprintf(&b, "Total: %s", Money(o.TotalAmount))
	return b.String()
}

func OrderLink(phone string, o models.Order) string {
	return Link(phone, OrderSummary(o))
}
