// Package seed загружает начальный каталог из YAML.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"vedashop/internal/domain"
	"vedashop/internal/repository"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog содержимое файла начальных данных
type Catalog struct {
	Users    []userRecord    `yaml:"users"`
	Products []productRecord `yaml:"products"`
	Orders   []orderRecord   `yaml:"orders"`
	Media    []mediaRecord   `yaml:"media"`
}

type userRecord struct {
	ID    string      `yaml:"id"`
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Phone string      `yaml:"phone"`
	Role  domain.Role `yaml:"role"`
}

// цены строками, чтобы не терять точность на float
type productRecord struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	NameHindi       string          `yaml:"name_hindi"`
	Description     string          `yaml:"description"`
	Image           string          `yaml:"image"`
	Gallery         []string        `yaml:"gallery"`
	Price           string          `yaml:"price"`
	DiscountPrice   string          `yaml:"discount_price"`
	OfferPercentage int             `yaml:"offer_percentage"`
	Category        domain.Category `yaml:"category"`
	Benefits        []string        `yaml:"benefits"`
	Rating          float64         `yaml:"rating"`
	Sales           int             `yaml:"sales"`
	Tags            []string        `yaml:"tags"`
	SKU             string          `yaml:"sku"`
	Stock           int             `yaml:"stock"`
	ReorderPoint    int             `yaml:"reorder_point"`
	Active          bool            `yaml:"active"`
}

type orderRecord struct {
	ID              string               `yaml:"id"`
	UserID          string               `yaml:"user_id"`
	Status          domain.OrderStatus   `yaml:"status"`
	PaymentMethod   domain.PaymentMethod `yaml:"payment_method"`
	TrackingNumber  string               `yaml:"tracking_number"`
	ShippingAddress domain.Address       `yaml:"shipping_address"`
	Items           []struct {
		ProductID string `yaml:"product_id"`
		Quantity  int    `yaml:"quantity"`
	} `yaml:"items"`
}

type mediaRecord struct {
	ID         string               `yaml:"id"`
	URL        string               `yaml:"url"`
	Name       string               `yaml:"name"`
	Type       domain.MediaType     `yaml:"type"`
	SizeKB     int                  `yaml:"size_kb"`
	UploadedBy string               `yaml:"uploaded_by"`
	Status     domain.MediaStatus   `yaml:"status"`
	Metadata   domain.MediaMetadata `yaml:"metadata"`
}

// Load читает каталог из файла; пустой путь означает встроенный каталог
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return &c, nil
}

// Stores хранилища, которые наполняет Apply
type Stores struct {
	Products repository.ProductRepository
	Users    repository.UserRepository
	Orders   repository.OrderRepository
	Media    repository.MediaRepository
}

// Apply записывает каталог в хранилища. Позиции заказов берут имя, SKU и цену
// из уже загруженных товаров; остатки не списываются.
func (c *Catalog) Apply(ctx context.Context, s Stores) error {
	for _, r := range c.Users {
		u := domain.User{ID: r.ID, Name: r.Name, Email: strings.ToLower(r.Email), Phone: r.Phone, Role: r.Role}
		if !u.Role.Valid() {
			return fmt.Errorf("seed user %s: unknown role %q", r.ID, r.Role)
		}
		if err := s.Users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed user %s: %w", r.ID, err)
		}
	}

	byID := make(map[string]domain.Product, len(c.Products))
	for _, r := range c.Products {
		p, err := r.product()
		if err != nil {
			return err
		}
		if err := s.Products.Create(ctx, &p); err != nil {
			return fmt.Errorf("seed product %s: %w", r.SKU, err)
		}
		byID[p.ID] = p
	}

	for _, r := range c.Orders {
		o := domain.Order{
			ID:              r.ID,
			UserID:          r.UserID,
			Status:          r.Status,
			PaymentMethod:   r.PaymentMethod,
			TrackingNumber:  r.TrackingNumber,
			ShippingAddress: r.ShippingAddress,
			TotalAmount:     decimal.Zero,
		}
		if !o.Status.Valid() {
			return fmt.Errorf("seed order %s: unknown status %q", r.ID, r.Status)
		}
		for _, it := range r.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				return fmt.Errorf("seed order %s: %w: product %s", r.ID, repository.ErrNotFound, it.ProductID)
			}
			price := p.UnitPrice()
			o.Items = append(o.Items, domain.OrderItem{
				ProductID: p.ID, Name: p.Name, SKU: p.SKU, UnitPrice: price, Quantity: it.Quantity,
			})
			o.TotalAmount = o.TotalAmount.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		if err := s.Orders.Create(ctx, &o); err != nil {
			return fmt.Errorf("seed order %s: %w", r.ID, err)
		}
	}

	for _, r := range c.Media {
		m := domain.MediaItem{
			ID:         r.ID,
			URL:        r.URL,
			Name:       r.Name,
			Type:       r.Type,
			SizeKB:     r.SizeKB,
			UploadedBy: r.UploadedBy,
			Status:     r.Status,
			Metadata:   r.Metadata,
		}
		if m.Status == "" {
			m.Status = domain.MediaPending
		}
		if !m.Status.Valid() {
			return fmt.Errorf("seed media %s: unknown status %q", r.ID, r.Status)
		}
		if err := s.Media.Create(ctx, &m); err != nil {
			return fmt.Errorf("seed media %s: %w", r.ID, err)
		}
	}
	return nil
}

func (r productRecord) product() (domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("seed product %s: price: %w", r.SKU, err)
	}
	p := domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		NameHindi:       r.NameHindi,
		Description:     r.Description,
		Image:           r.Image,
		Gallery:         r.Gallery,
		Price:           price,
		OfferPercentage: r.OfferPercentage,
		Category:        r.Category,
		Benefits:        r.Benefits,
		Rating:          r.Rating,
		Sales:           r.Sales,
		Tags:            r.Tags,
		SKU:             r.SKU,
		Stock:           r.Stock,
		ReorderPoint:    r.ReorderPoint,
		IsActive:        r.Active,
	}
	if r.DiscountPrice != "" {
		d, err := decimal.NewFromString(r.DiscountPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("seed product %s: discount_price: %w", r.SKU, err)
		}
		p.DiscountPrice = &d
	}
	return p, nil
}
