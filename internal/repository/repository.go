package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vedashop/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists сущность с таким ID уже есть
	ErrAlreadyExists = errors.New("already exists")
)

// ProductStatus фильтр по видимости товара
type ProductStatus string

const (
	StatusAll      ProductStatus = "all"
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	// Search ищет по имени, SKU, тегам и полезным свойствам
	Search     string
	SKU        string
	Categories []domain.Category
	Tags       []string
	Status     ProductStatus
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// OrderFilter параметры выборки заказов
type OrderFilter struct {
	UserID string
	Status domain.OrderStatus
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	// TouchLogin меняет только LastLogin, не затирая параллельные правки записи
	TouchLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeDeleted bool) ([]domain.User, error)
}

// MediaFilter выборка медиатеки; пустые поля не фильтруют
type MediaFilter struct {
	UploadedBy string
	Status     domain.MediaStatus
	Type       domain.MediaType
	// Search по имени, заголовку и тегам
	Search string
}

// MediaRepository учёт файлов медиатеки
type MediaRepository interface {
	Create(ctx context.Context, m *domain.MediaItem) error
	GetByID(ctx context.Context, id string) (*domain.MediaItem, error)
	Update(ctx context.Context, m *domain.MediaItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f MediaFilter) ([]domain.MediaItem, error)
}

// SettingsRepository хранилище настроек: ключ → JSON-блоб
type SettingsRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// TxManager абстракция транзакции. Для in-memory это глобальная блокировка записи
// и откат к снимку при ошибке.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
