// Package render turns collections into the HTML fragments that replace a
// page section wholesale.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Skotchmaster/grocery_shop/internal/whatsapp"
)

const PlaceholderImage = "https://via.placeholder.com/150"

// Fragment names. Collection fragments share their live collection name.
const (
	Products       = "products"
	AdminProducts  = "admin_products"
	Villages       = "villages"
	VillageOptions = "village_options"
	Orders         = "orders"
	Banners        = "banners"
	Categories     = "categories"
	ShopStatus     = "shop_status"
	Cart           = "cart"
	Dashboard      = "dashboard"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"money":   whatsapp.Money,
	"shortID": whatsapp.ShortID,
	"image": func(url string) string {
		if url == "" {
			return PlaceholderImage
		}
		return url
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "Just now"
		}
		return t.Local().Format("02 Jan 2006, 3:04 PM")
	},
}

type Renderer struct {
	t *template.Template
}

func New() (*Renderer, error) {
	t, err := template.New("fragments").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}
	return &Renderer{t: t}, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Has(name string) bool {
	return r.t.Lookup(name) != nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if !r.Has(name) {
		return fmt.Errorf("unknown fragment %q", name)
	}
	return r.t.ExecuteTemplate(w, name, data)
}

// String renders into memory so a failed template never leaves a half
// written response.
func (r *Renderer) String(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
