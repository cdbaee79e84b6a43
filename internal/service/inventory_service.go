package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

// InventoryFilter параметры складского списка
type InventoryFilter struct {
	// Search подстрока имени или SKU без учёта регистра
	Search string
	Level  domain.StockLevel
}

// InventoryService ручные корректировки остатков и складские выборки
type InventoryService struct {
	products     repository.ProductRepository
	tx           repository.TxManager
	audit        *audit.Logger
	guard        *Guard
	notifier     notify.Notifier
	validate     *validator.Validate
	reorderPoint int
}

func NewInventoryService(products repository.ProductRepository, tx repository.TxManager, logger *audit.Logger, n notify.Notifier, defaultReorderPoint int) *InventoryService {
	if defaultReorderPoint <= 0 {
		defaultReorderPoint = 10
	}
	return &InventoryService{
		products:     products,
		tx:           tx,
		audit:        logger,
		guard:        NewGuard(logger),
		notifier:     n,
		validate:     newValidator(),
		reorderPoint: defaultReorderPoint,
	}
}

// AdjustStock применяет корректировку. Без причины или права ничего не меняется
// и в журнал ничего не пишется, кроме отказа в доступе.
func (s *InventoryService) AdjustStock(ctx context.Context, productID string, adj domain.StockAdjustment) (*domain.Product, error) {
	adj.Reason = strings.TrimSpace(adj.Reason)
	if err := validateStruct(s.validate, adj); err != nil {
		return nil, err
	}
	actor, err := s.guard.Require(ctx, auth.ManageProducts, "AdjustStock")
	if err != nil {
		return nil, err
	}

	var (
		updated  *domain.Product
		oldStock int
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("product %s: %w", productID, err)
		}
		oldStock = p.Stock
		p.Stock = adj.Apply(p.Stock)
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Info("Stock Adjustment", entry(actor, "AdjustStock", map[string]any{
		"productId": updated.ID,
		"sku":       updated.SKU,
		"type":      adj.Type,
		"qty":       adj.Quantity,
		"reason":    adj.Reason,
		"oldStock":  oldStock,
		"newStock":  updated.Stock,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Stock updated successfully")
	return updated, nil
}

// UpdateReorderPoint меняет порог без причины
func (s *InventoryService) UpdateReorderPoint(ctx context.Context, productID string, value int) (*domain.Product, error) {
	if value < 0 {
		return nil, invalid("reorder_point", "must be at least 0")
	}
	actor, err := s.guard.Require(ctx, auth.ManageProducts, "UpdateReorderPoint")
	if err != nil {
		return nil, err
	}
	var (
		updated *domain.Product
		old     int
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("product %s: %w", productID, err)
		}
		old = p.ReorderPoint
		p.ReorderPoint = value
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info("Reorder Point Updated", entry(actor, "UpdateReorderPoint", map[string]any{
		"productId": updated.ID, "sku": updated.SKU, "oldValue": old, "newValue": value,
	}))
	return updated, nil
}

// ListInventory складской список, сначала наименьший остаток
func (s *InventoryService) ListInventory(ctx context.Context, f InventoryFilter) ([]domain.Product, error) {
	all, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		switch f.Level {
		case domain.StockLevelLow:
			if !p.IsLowStock(s.reorderPoint) {
				continue
			}
		case domain.StockLevelOut:
			if p.Stock > 0 {
				continue
			}
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b domain.Product) int { return a.Stock - b.Stock })
	return out, nil
}

// LowStock товары на уровне порога или ниже
func (s *InventoryService) LowStock(ctx context.Context) ([]domain.Product, error) {
	return s.ListInventory(ctx, InventoryFilter{Level: domain.StockLevelLow})
}

// DefaultReorderPoint порог для товаров без своего значения
func (s *InventoryService) DefaultReorderPoint() int { return s.reorderPoint }
