package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo     repository.ProductRepository
	tx       repository.TxManager
	audit    *audit.Logger
	guard    *Guard
	notifier notify.Notifier
	validate *validator.Validate
}

func NewProductService(repo repository.ProductRepository, tx repository.TxManager, logger *audit.Logger, n notify.Notifier) *ProductService {
	return &ProductService{
		repo:     repo,
		tx:       tx,
		audit:    logger,
		guard:    NewGuard(logger),
		notifier: n,
		validate: newValidator(),
	}
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	actor, err := s.guard.Require(ctx, auth.ManageProducts, "CreateProduct")
	if err != nil {
		return nil, err
	}
	cp := p.Clone()
	cp.ID = ""
	if err := s.check(&cp); err != nil {
		s.saveFailed(ctx, actor, cp, err)
		return nil, err
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUniqueSKU(ctx, &cp); err != nil {
			return err
		}
		return s.repo.Create(ctx, &cp)
	})
	if err != nil {
		s.saveFailed(ctx, actor, cp, err)
		return nil, err
	}
	s.audit.Info("Product Created", entry(actor, "CreateProduct", map[string]any{
		"productId": cp.ID, "name": cp.Name, "sku": cp.SKU, "stock": cp.Stock,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Product created successfully")
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	// скрытые товары видны только тем, кто управляет каталогом
	if !p.IsActive && !s.guard.Can(ctx, auth.ManageProducts) {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return p, nil
}

// Update полная замена записи; CreatedAt сохраняется
func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	actor, err := s.guard.Require(ctx, auth.ManageProducts, "UpdateProduct")
	if err != nil {
		return nil, err
	}
	cp := p.Clone()
	if err := s.check(&cp); err != nil {
		s.saveFailed(ctx, actor, cp, err)
		return nil, err
	}
	var oldStock int
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByID(ctx, cp.ID)
		if err != nil {
			return fmt.Errorf("product %s: %w", cp.ID, err)
		}
		if err := s.ensureUniqueSKU(ctx, &cp); err != nil {
			return err
		}
		oldStock = existing.Stock
		cp.CreatedAt = existing.CreatedAt
		return s.repo.Update(ctx, &cp)
	})
	if err != nil {
		s.saveFailed(ctx, actor, cp, err)
		return nil, err
	}
	s.audit.Info("Product Updated", entry(actor, "UpdateProduct", map[string]any{
		"productId": cp.ID, "name": cp.Name, "sku": cp.SKU,
	}))
	if oldStock != cp.Stock {
		s.audit.Info("Stock Adjusted (Edit)", entry(actor, "UpdateProduct", map[string]any{
			"productId": cp.ID, "sku": cp.SKU, "oldStock": oldStock, "newStock": cp.Stock,
		}))
	}
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Product updated successfully")
	return &cp, nil
}

// Delete безвозвратное удаление
func (s *ProductService) Delete(ctx context.Context, id string) error {
	actor, err := s.guard.Require(ctx, auth.DeleteRecords, "DeleteProduct")
	if err != nil {
		return err
	}
	var removed *domain.Product
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product %s: %w", id, err)
		}
		removed = p
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.audit.Warn("Product Deleted", entry(actor, "DeleteProduct", map[string]any{
		"productId": removed.ID, "name": removed.Name, "sku": removed.SKU,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Product deleted")
	return nil
}

// List витрина получает только активные товары, фильтр status действует для управляющих каталогом
func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	if !s.guard.Can(ctx, auth.ManageProducts) {
		f.Status = repository.StatusActive
	}
	return s.repo.List(ctx, f)
}

// check нормализует и валидирует запись перед сохранением
func (s *ProductService) check(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	if err := validateStruct(s.validate, p); err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		return invalid("price", "must be greater than 0")
	}
	if p.DiscountPrice != nil && (p.DiscountPrice.IsNegative() || p.DiscountPrice.GreaterThan(p.Price)) {
		return invalid("discount_price", "must be between 0 and price")
	}
	p.Normalize()
	return nil
}

// ensureUniqueSKU SKU уникален среди активных товаров
func (s *ProductService) ensureUniqueSKU(ctx context.Context, p *domain.Product) error {
	if !p.IsActive {
		return nil
	}
	same, err := s.repo.List(ctx, repository.ProductFilter{SKU: p.SKU, Status: repository.StatusActive})
	if err != nil {
		return err
	}
	for _, other := range same {
		if other.ID != p.ID && strings.EqualFold(other.SKU, p.SKU) {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, p.SKU)
		}
	}
	return nil
}

func (s *ProductService) saveFailed(ctx context.Context, actor auth.Actor, p domain.Product, err error) {
	c := entry(actor, "SaveProduct", map[string]any{"productId": p.ID, "name": p.Name, "sku": p.SKU})
	c.ErrorCode = "PRODUCT_SAVE_FAIL"
	c.Err = err
	s.audit.Error("Product Save Failed", c)
	notify.Send(ctx, s.notifier, notify.KindError, "Failed to save product: "+err.Error())
}
