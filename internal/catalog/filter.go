// Package catalog filters the in-memory product list shown by the storefront.
package catalog

import (
	"strings"

	"github.com/Skotchmaster/grocery_shop/internal/models"
)

const AllCategories = "all"

type Filter struct {
	Category string `query:"category"`
	Query    string `query:"q"`
}

func ByCategory(products []models.Product, category string) []models.Product {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategories) {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search is a case-insensitive substring match over name and category.
func Search(products []models.Product, q string) []models.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

func Apply(products []models.Product, f Filter) []models.Product {
	return Search(ByCategory(products, f.Category), f.Query)
}
