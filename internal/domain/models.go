package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category категория товара в каталоге
type Category string

const (
	CategorySupplements Category = "supplements"
	CategoryTea         Category = "tea"
	CategoryOils        Category = "oils"
	CategorySkincare    Category = "skincare"
)

// Product представляет травяной товар магазина вместе со складскими полями
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name" validate:"required"`
	NameHindi       string           `json:"name_hindi,omitempty"`
	Description     string           `json:"description,omitempty"`
	Image           string           `json:"image,omitempty"`
	Gallery         []string         `json:"gallery,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPrice   *decimal.Decimal `json:"discount_price,omitempty"`
	OfferPercentage int              `json:"offer_percentage,omitempty" validate:"min=0,max=100"`
	Category        Category         `json:"category" validate:"required,oneof=supplements tea oils skincare"`
	Benefits        []string         `json:"benefits,omitempty"`
	Rating          float64          `json:"rating,omitempty"`
	Sales           int              `json:"sales,omitempty"`
	Tags            []string         `json:"tags"`
	SKU             string           `json:"sku" validate:"required"`
	Stock           int              `json:"stock" validate:"min=0"`
	ReorderPoint    int              `json:"reorder_point" validate:"min=0"`
	InStock         bool             `json:"in_stock"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Normalize приводит производные поля в согласованное состояние.
// InStock всегда равен Stock > 0, теги образуют множество без пустых строк.
func (p *Product) Normalize() {
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.InStock = p.Stock > 0
	p.Tags = NormalizeTags(p.Tags)
}

// HasTag проверяет точное совпадение тега
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UnitPrice цена продажи: скидочная, если задана
func (p *Product) UnitPrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}

// ReorderLevel порог низкого остатка; 0 означает значение по умолчанию
func (p *Product) ReorderLevel(fallback int) int {
	if p.ReorderPoint > 0 {
		return p.ReorderPoint
	}
	return fallback
}

// IsLowStock остаток на уровне порога или ниже
func (p *Product) IsLowStock(fallback int) bool {
	return p.Stock <= p.ReorderLevel(fallback)
}

// Clone глубокая копия (срезы не разделяются между копиями)
func (p Product) Clone() Product {
	cp := p
	cp.Gallery = append([]string(nil), p.Gallery...)
	cp.Benefits = append([]string(nil), p.Benefits...)
	cp.Tags = append([]string(nil), p.Tags...)
	if p.DiscountPrice != nil {
		d := *p.DiscountPrice
		cp.DiscountPrice = &d
	}
	return cp
}

// NormalizeTags обрезает пробелы, убирает пустые и дубликаты, сохраняя порядок
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPacked    OrderStatus = "packed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var statusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPacked:    1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// Valid известный ли статус
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

// CanTransition жизненный цикл только вперёд: pending→packed→shipped→delivered.
// Отмена возможна из любого состояния до доставки. Повтор текущего статуса разрешён.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s == OrderStatusCancelled || s == OrderStatusDelivered {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return statusRank[next] == statusRank[s]+1
}

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

// Address адрес доставки
type Address struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	ZipCode string `json:"zip_code" yaml:"zip_code"`
	Country string `json:"country" yaml:"country"`
}

// OrderItem позиция в заказе: снимок товара на момент покупки
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Order сущность заказа
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress Address         `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Clone копия без общих срезов
func (o Order) Clone() Order {
	cp := o
	cp.Items = append([]OrderItem(nil), o.Items...)
	return cp
}
