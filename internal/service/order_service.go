package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

// OrderLine позиция запроса на создание заказа
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NewOrder запрос на создание заказа
type NewOrder struct {
	Items           []OrderLine          `json:"items"`
	ShippingAddress domain.Address       `json:"shipping_address"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
}

// OrderService реализует логику заказов: создание, просмотр, смена статуса
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
	audit    *audit.Logger
	guard    *Guard
	notifier notify.Notifier
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, tx repository.TxManager, logger *audit.Logger, n notify.Notifier) *OrderService {
	return &OrderService{products: products, orders: orders, tx: tx, audit: logger, guard: NewGuard(logger), notifier: n}
}

// CreateOrder проверяет наличие товара и атомарно списывает запас
func (s *OrderService) CreateOrder(ctx context.Context, req NewOrder) (*domain.Order, error) {
	actor, err := s.guard.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, invalid("items", "is required")
	}
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, invalid("items", "each item needs product_id and positive quantity")
		}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCOD
	}
	if req.PaymentMethod != domain.PaymentCOD && req.PaymentMethod != domain.PaymentOnline {
		return nil, invalid("payment_method", "must be one of: cod online")
	}

	var created *domain.Order
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// одна и та же позиция может встречаться несколько раз
		reserved := make(map[string]*domain.Product)
		o := domain.Order{
			UserID:          actor.UserID,
			Status:          domain.OrderStatusPending,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			TotalAmount:     decimal.Zero,
		}
		for _, it := range req.Items {
			p, ok := reserved[it.ProductID]
			if !ok {
				got, err := s.products.GetByID(ctx, it.ProductID)
				if err != nil {
					return fmt.Errorf("product %s: %w", it.ProductID, err)
				}
				if !got.IsActive {
					return fmt.Errorf("product %s: %w", it.ProductID, repository.ErrNotFound)
				}
				p = got
				reserved[p.ID] = p
			}
			if p.Stock < it.Quantity {
				return fmt.Errorf("%w: %s", ErrNotEnoughStock, p.SKU)
			}
			p.Stock -= it.Quantity
			price := p.UnitPrice()
			o.Items = append(o.Items, domain.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				SKU:       p.SKU,
				UnitPrice: price,
				Quantity:  it.Quantity,
			})
			o.TotalAmount = o.TotalAmount.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		for _, p := range reserved {
			p.Sales += soldQuantity(o.Items, p.ID)
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info("Order Created", entry(actor, "CreateOrder", map[string]any{
		"orderId": created.ID, "items": len(created.Items), "total": created.TotalAmount.StringFixed(2),
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Order placed successfully")
	return created, nil
}

func soldQuantity(items []domain.OrderItem, productID string) int {
	n := 0
	for _, it := range items {
		if it.ProductID == productID {
			n += it.Quantity
		}
	}
	return n
}

// ListOrders свои заказы; с manage_orders все
func (s *OrderService) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	actor, err := s.guard.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	f := repository.OrderFilter{Status: status}
	if !auth.Can(actor.Role, auth.ManageOrders) {
		f.UserID = actor.UserID
	}
	return s.orders.List(ctx, f)
}

// GetOrder заказ виден владельцу и тем, кто управляет заказами
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	actor, err := s.guard.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	if o.UserID != actor.UserID {
		if _, err := s.guard.Require(ctx, auth.ManageOrders, "GetOrder"); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// UpdateStatus меняет статус и, если передан, трек-номер.
// Отмена возвращает товары на склад в той же транзакции.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, tracking *string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be one of: pending packed shipped delivered cancelled")
	}
	actor, err := s.guard.Require(ctx, auth.ManageOrders, "UpdateOrderStatus")
	if err != nil {
		return nil, err
	}
	var (
		updated *domain.Order
		prev    domain.OrderStatus
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("order %s: %w", id, err)
		}
		if !o.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidState, o.Status, status)
		}
		if status == domain.OrderStatusCancelled && o.Status != domain.OrderStatusCancelled {
			if err := s.restock(ctx, o.Items); err != nil {
				return err
			}
		}
		prev = o.Status
		o.Status = status
		if tracking != nil {
			o.TrackingNumber = strings.TrimSpace(*tracking)
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info("Order Status Updated", entry(actor, "UpdateOrderStatus", map[string]any{
		"orderId": updated.ID, "from": prev, "to": updated.Status, "trackingNumber": updated.TrackingNumber,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Order status updated")
	return updated, nil
}

// restock возвращает количества на склад; удалённые товары пропускаются
func (s *OrderService) restock(ctx context.Context, items []domain.OrderItem) error {
	for _, it := range items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		p.Stock += it.Quantity
		if p.Sales >= it.Quantity {
			p.Sales -= it.Quantity
		}
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
