package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ShopStatusID = "shop"
)

type Product struct {
	ID        string    `gorm:"primaryKey;size:36"          json:"id"`
	Name      string    `gorm:"not null"                    json:"name"`
	Price     float64   `gorm:"not null"                    json:"price"`
	Unit      string    `gorm:"not null"                    json:"unit"`
	ImageURL  string    `                                   json:"image_url"`
	Category  string    `gorm:"index"                       json:"category"`
	CreatedAt time.Time `gorm:"index"                       json:"created_at"`
}

type Village struct {
	ID             string    `gorm:"primaryKey;size:36"     json:"id"`
	Name           string    `gorm:"not null"               json:"name"`
	DistanceKm     float64   `                              json:"distance_km"`
	DeliveryCharge float64   `gorm:"not null"               json:"delivery_charge"`
	CreatedAt      time.Time `                              json:"created_at"`
}

type Order struct {
	ID             string      `gorm:"primaryKey;size:36"            json:"id"`
	UserID         string      `gorm:"index;size:36"                 json:"user_id"`
	CustomerName   string      `gorm:"not null"                      json:"customer_name"`
	Phone          string      `gorm:"not null"                      json:"phone"`
	Village        string      `                                     json:"village"`
	Address        string      `gorm:"not null"                      json:"address"`
	Items          []OrderItem `gorm:"constraint:OnDelete:CASCADE"   json:"items"`
	Subtotal       float64     `gorm:"not null"                      json:"subtotal"`
	DeliveryCharge float64     `gorm:"not null"                      json:"delivery_charge"`
	TotalAmount    float64     `gorm:"not null"                      json:"total_amount"`
	CreatedAt      time.Time   `gorm:"index"                         json:"created_at"`
}

type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:36"  json:"id"`
	OrderID   string  `gorm:"index;size:36"       json:"order_id"`
	ProductID string  `gorm:"size:36"             json:"product_id"`
	Name      string  `gorm:"not null"            json:"name"`
	Price     float64 `gorm:"not null"            json:"price"`
	Quantity  uint    `gorm:"not null"            json:"quantity"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ShopStatus is a single row keyed by ShopStatusID.
type ShopStatus struct {
	ID        string    `gorm:"primaryKey;size:36"  json:"-"`
	Open      bool      `                           json:"open"`
	Message   string    `                           json:"message"`
	UpdatedAt time.Time `                           json:"updated_at"`
}

type Banner struct {
	ID        string    `gorm:"primaryKey;size:36"  json:"id"`
	Title     string    `                           json:"title"`
	ImageURL  string    `gorm:"not null"            json:"image_url"`
	Link      string    `                           json:"link"`
	CreatedAt time.Time `gorm:"index"               json:"created_at"`
}

type Category struct {
	ID        string    `gorm:"primaryKey;size:36"  json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Icon      string    `                           json:"icon"`
	CreatedAt time.Time `                           json:"created_at"`
}

type User struct {
	ID           string `gorm:"primaryKey;size:36"     json:"id"`
	Email        string `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string `gorm:"not null"               json:"-"`
	Role         string `gorm:"not null"               json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"             json:"id"`
	JTI       string `gorm:"uniqueIndex;not null"   json:"jti"`
	UserID    string `gorm:"index;size:36;not null" json:"user_id"`
	ExpiresAt int64  `gorm:"not null"               json:"expires_at"`
	Revoked   bool   `gorm:"default:false"          json:"revoked"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (p *Product) BeforeCreate(tx *gorm.DB) error   { newID(&p.ID); return nil }
func (v *Village) BeforeCreate(tx *gorm.DB) error   { newID(&v.ID); return nil }
func (o *Order) BeforeCreate(tx *gorm.DB) error     { newID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error { newID(&i.ID); return nil }
func (b *Banner) BeforeCreate(tx *gorm.DB) error    { newID(&b.ID); return nil }
func (c *Category) BeforeCreate(tx *gorm.DB) error  { newID(&c.ID); return nil }
func (u *User) BeforeCreate(tx *gorm.DB) error      { newID(&u.ID); return nil }

// All lists every model managed by AutoMigrate.
func All() []any {
	return []any{
		&Product{}, &Village{}, &Order{}, &OrderItem{}, &ShopStatus{},
		&Banner{}, &Category{}, &User{}, &RefreshToken{},
	}
}
