package repository

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vedashop/internal/domain"
)

// MemoryStore объединённое in-memory хранилище. Создаётся один раз при старте
// и передаётся в сервисы; в тестах у каждого теста своё хранилище.
type MemoryStore struct {
	mu           sync.RWMutex
	productsByID map[string]domain.Product
	ordersByID   map[string]domain.Order
	usersByID    map[string]domain.User
	mediaByID    map[string]domain.MediaItem
	settings     map[string][]byte
	now          func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID: make(map[string]domain.Product),
		ordersByID:   make(map[string]domain.Order),
		usersByID:    make(map[string]domain.User),
		mediaByID:    make(map[string]domain.MediaItem),
		settings:     make(map[string][]byte),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, ok := m.productsByID[p.ID]; ok {
		return ErrAlreadyExists
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	p.Normalize()
	m.productsByID[p.ID] = p.Clone()
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p.Clone()
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	p.Normalize()
	m.productsByID[p.ID] = p.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

// List товары по фильтру, новые первыми
func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if !f.match(&p) {
			continue
		}
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b domain.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (f ProductFilter) match(p *domain.Product) bool {
	if s := strings.TrimSpace(f.Search); s != "" {
		hit := containsIgnoreCase(p.Name, s) || containsIgnoreCase(p.SKU, s) ||
			anyContains(p.Tags, s) || anyContains(p.Benefits, s)
		if !hit {
			return false
		}
	}
	if s := strings.TrimSpace(f.SKU); s != "" && !containsIgnoreCase(p.SKU, s) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, p.HasTag) {
		return false
	}
	switch f.Status {
	case StatusActive:
		if !p.IsActive {
			return false
		}
	case StatusInactive:
		if p.IsActive {
			return false
		}
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func anyContains(values []string, substr string) bool {
	for _, v := range values {
		if containsIgnoreCase(v, substr) {
			return true
		}
	}
	return false
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

// WithTransaction выполняет fn под блокировкой записи. Если fn вернула ошибку,
// все изменения товаров, заказов, пользователей и медиатеки откатываются к снимку.
func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	products := maps.Clone(tx.store.productsByID)
	orders := maps.Clone(tx.store.ordersByID)
	users := maps.Clone(tx.store.usersByID)
	media := maps.Clone(tx.store.mediaByID)

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tx.store.productsByID = products
		tx.store.ordersByID = orders
		tx.store.usersByID = users
		tx.store.mediaByID = media
		return err
	}
	return nil
}
