package models

import (
	"fmt"
	"time"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductDraft      ProductStatus = "draft"
	ProductArchived   ProductStatus = "archived"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

type ProductImage struct {
	URL           string  `bson:"url"           json:"url"            validate:"required,url"`
	Alt           string  `bson:"alt"           json:"alt"            validate:"required"`
	AspectRatio   float64 `bson:"aspectRatio"   json:"aspectRatio"    validate:"gt=0"`
	DominantColor string  `bson:"dominantColor" json:"dominantColor"  validate:"required,hexcolor"`
	Width         int     `bson:"width"         json:"width"          validate:"gt=0"`
	Height        int     `bson:"height"        json:"height"         validate:"gt=0"`
	Order         int     `bson:"order"         json:"order"          validate:"min=0"`
}

type ProductVideo struct {
	URL       string `bson:"url"                 json:"url"                 validate:"required,url"`
	PosterURL string `bson:"posterUrl,omitempty" json:"posterUrl,omitempty" validate:"omitempty,url"`
	Type      string `bson:"type,omitempty"      json:"type,omitempty"      validate:"omitempty,oneof=mp4 webm"`
}

type ProductMedia struct {
	Images []ProductImage `bson:"images"          json:"images"          validate:"min=1,dive"`
	Video  *ProductVideo  `bson:"video,omitempty" json:"video,omitempty" validate:"omitempty"`
}

type ProductPrice struct {
	Amount   float64 `bson:"amount"   json:"amount"   validate:"gt=0"`
	Currency string  `bson:"currency" json:"currency" validate:"required,oneof=USD EUR BDT"`
}

type ProductSEO struct {
	MetaTitle       string   `bson:"metaTitle"       json:"metaTitle"       validate:"max=60"`
	MetaDescription string   `bson:"metaDescription" json:"metaDescription" validate:"max=160"`
	Keywords        []string `bson:"keywords"        json:"keywords"`
}

type ProductFeatureFlags struct {
	IsFeatured bool `bson:"isFeatured,omitempty" json:"isFeatured,omitempty"`
	IsNew      bool `bson:"isNew,omitempty"      json:"isNew,omitempty"`
}

type Product struct {
	ID             string               `bson:"_id,omitempty"          json:"id"`
	Slug           string               `bson:"slug"                   json:"slug"           validate:"required,slug"`
	Title          string               `bson:"title"                  json:"title"          validate:"min=3"`
	Subtitle       string               `bson:"subtitle,omitempty"     json:"subtitle,omitempty"`
	Description    string               `bson:"description"            json:"description"    validate:"min=10"`
	BulletPoints   []string             `bson:"bulletPoints"           json:"bulletPoints"   validate:"max=10,dive,min=1"`
	Price          ProductPrice         `bson:"price"                  json:"price"`
	Stock          int                  `bson:"stock"                  json:"stock"          validate:"min=0"`
	Status         ProductStatus        `bson:"status"                 json:"status"         validate:"oneof=active draft archived out_of_stock"`
	Categories     []string             `bson:"categories"             json:"categories"     validate:"dive,min=1"`
	Tags           []string             `bson:"tags"                   json:"tags"           validate:"dive,min=1"`
	Media          ProductMedia         `bson:"media"                  json:"media"`
	FeatureFlags   *ProductFeatureFlags `bson:"featureFlags,omitempty" json:"featureFlags,omitempty"`
	SEO            *ProductSEO          `bson:"seo,omitempty"          json:"seo,omitempty"`
	SearchKeywords []string             `bson:"searchKeywords"         json:"searchKeywords"`
	CreatedAt      time.Time            `bson:"createdAt"              json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"              json:"updatedAt"`
}

// Purchasable reports whether the product can currently be sold at all.
// An out_of_stock status wins over any numeric stock value.
func (p *Product) Purchasable() bool {
	return p.Status == ProductActive && p.Stock > 0
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderPacked     OrderStatus = "packed"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID     string  `bson:"productId"     json:"productId"     validate:"required"`
	TitleSnapshot string  `bson:"titleSnapshot" json:"titleSnapshot" validate:"required"`
	SlugSnapshot  string  `bson:"slugSnapshot"  json:"slugSnapshot"  validate:"required"`
	UnitPrice     float64 `bson:"unitPrice"     json:"unitPrice"     validate:"gt=0"`
	Quantity      int     `bson:"quantity"      json:"quantity"      validate:"gt=0"`
	Subtotal      float64 `bson:"subtotal"      json:"subtotal"      validate:"gt=0"`
}

type OrderAddress struct {
	Line1      string `bson:"line1"                json:"line1"                validate:"min=5"`
	Line2      string `bson:"line2,omitempty"      json:"line2,omitempty"`
	City       string `bson:"city"                 json:"city"                 validate:"min=2"`
	State      string `bson:"state,omitempty"      json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country"              json:"country"              validate:"min=2"`
}

type OrderCustomer struct {
	Name    string       `bson:"name"            json:"name"            validate:"min=2"`
	Phone   string       `bson:"phone"           json:"phone"           validate:"phone"`
	Email   string       `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address OrderAddress `bson:"address"         json:"address"`
}

type OrderTotals struct {
	ItemsTotal float64 `bson:"itemsTotal" json:"itemsTotal" validate:"min=0"`
	Tax        float64 `bson:"tax"        json:"tax"        validate:"min=0"`
	Shipping   float64 `bson:"shipping"   json:"shipping"   validate:"min=0"`
	Discount   float64 `bson:"discount"   json:"discount"   validate:"min=0"`
	GrandTotal float64 `bson:"grandTotal" json:"grandTotal" validate:"gt=0"`
	Currency   string  `bson:"currency"   json:"currency"   validate:"required"`
}

type OrderPayment struct {
	Method string `bson:"method" json:"method" validate:"oneof=COD ONLINE PAY_LATER"`
	Status string `bson:"status" json:"status" validate:"oneof=unpaid paid refunded"`
}

type StatusTimelineEntry struct {
	Status OrderStatus `bson:"status"         json:"status"`
	At     time.Time   `bson:"at"             json:"at"`
	Note   string      `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID                 string                `bson:"_id,omitempty"                json:"id"`
	OrderNumber        string                `bson:"orderNumber"                  json:"orderNumber"`
	TrackingCode       string                `bson:"trackingCode,omitempty"       json:"trackingCode,omitempty"`
	Items              []OrderItem           `bson:"items"                        json:"items"`
	Customer           OrderCustomer         `bson:"customer"                     json:"customer"`
	Notes              string                `bson:"notes,omitempty"              json:"notes,omitempty"`
	Totals             OrderTotals           `bson:"totals"                       json:"totals"`
	Payment            OrderPayment          `bson:"payment"                      json:"payment"`
	CurrentStatus      OrderStatus           `bson:"currentStatus"                json:"currentStatus"`
	StatusTimeline     []StatusTimelineEntry `bson:"statusTimeline"               json:"statusTimeline"`
	CreatedAt          time.Time             `bson:"createdAt"                    json:"createdAt"`
	UpdatedAt          time.Time             `bson:"updatedAt"                    json:"updatedAt"`
	LastPublicLookupAt *time.Time            `bson:"lastPublicLookupAt,omitempty" json:"lastPublicLookupAt,omitempty"`
}

// OrderCreate is the write-side shape of an order before the store assigns
// its id and order number.
type OrderCreate struct {
	Items    []OrderItem   `json:"items"    validate:"min=1,dive"`
	Customer OrderCustomer `json:"customer"`
	Notes    string        `json:"notes,omitempty" validate:"max=500"`
	Totals   OrderTotals   `json:"totals"`
	Payment  OrderPayment  `json:"payment"`
}

// OrderRef is what createOrder hands back to the caller.
type OrderRef struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

type Admin struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Email        string `bson:"email"         json:"email"`
	PasswordHash string `bson:"passwordHash"  json:"-"`
}

// FormatOrderNumber renders a sequence value as a human-readable order
// number, e.g. ("TIF-", 2025, 7) -> "TIF-2025-000007".
func FormatOrderNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%d-%06d", prefix, year, seq)
}
