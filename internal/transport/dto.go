package transport

type Credentials struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" form:"product_id" validate:"required"`
	Quantity  uint   `json:"quantity"   form:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

type CheckoutRequest struct {
	CustomerName string `json:"customer_name" form:"customer_name" validate:"required"`
	Phone        string `json:"phone"         form:"phone"         validate:"required,min=10,max=15"`
	VillageID    string `json:"village_id"    form:"village_id"    validate:"required"`
	Address      string `json:"address"       form:"address"       validate:"required"`
}

type ProductRequest struct {
	Name     string  `json:"name"      form:"name"      validate:"required"`
	Price    float64 `json:"price"     form:"price"     validate:"gt=0"`
	Unit     string  `json:"unit"      form:"unit"      validate:"required"`
	ImageURL string  `json:"image_url" form:"image_url" validate:"omitempty,url"`
	Category string  `json:"category"  form:"category"  validate:"required"`
}

type VillageRequest struct {
	Name           string  `json:"name"            form:"name"            validate:"required"`
	DistanceKm     float64 `json:"distance_km"     form:"distance_km"     validate:"gte=0"`
	DeliveryCharge float64 `json:"delivery_charge" form:"delivery_charge" validate:"gte=0"`
}

type BannerRequest struct {
	Title    string `json:"title"     form:"title"`
	ImageURL string `json:"image_url" form:"image_url" validate:"required,url"`
	Link     string `json:"link"      form:"link"      validate:"omitempty,url"`
}

type CategoryRequest struct {
	Name string `json:"name" form:"name" validate:"required"`
	Icon string `json:"icon" form:"icon"`
}

type ShopStatusRequest struct {
	Open    *bool  `json:"open"    form:"open"    validate:"required"`
	Message string `json:"message" form:"message"`
}

type CheckoutResponse struct {
	OrderID      string  `json:"order_id"`
	ShortID      string  `json:"short_id"`
	Subtotal     float64 `json:"subtotal"`
	Delivery     float64 `json:"delivery_charge"`
	Total        float64 `json:"total_amount"`
	WhatsAppLink string  `json:"whatsapp_link"`
}

type Dashboard struct {
	TotalProducts int64 `json:"total_products"`
	TotalOrders   int64 `json:"total_orders"`
}
