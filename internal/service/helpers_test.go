package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/cache"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

type testEnv struct {
	store     *repository.MemoryStore
	audit     *audit.Logger
	products  *ProductService
	inventory *InventoryService
	tags      *TagService
	orders    *OrderService
	users     *UserService
	alerts    *AlertService
	logs      *LogService
	media     *MediaService
}

func setup(t *testing.T, n notify.Notifier) *testEnv {
	t.Helper()
	if n == nil {
		n = notify.Multi{}
	}
	store := repository.NewMemoryStore()
	tx := repository.NewMemoryTx(store)
	logger := audit.New(100, slog.New(slog.NewTextHandler(io.Discard, nil)))
	inventory := NewInventoryService(store, tx, logger, n, 10)
	return &testEnv{
		store:     store,
		audit:     logger,
		products:  NewProductService(store, tx, logger, n),
		inventory: inventory,
		tags:      NewTagService(store, tx, logger, n),
		orders:    NewOrderService(store, repository.NewMemoryOrders(store), tx, logger, n),
		users:     NewUserService(repository.NewMemoryUsers(store), logger, n),
		alerts:    NewAlertService(inventory, repository.NewMemorySettings(store), cache.New(time.Hour), logger, n, ""),
		logs:      NewLogService(logger, n),
		media:     NewMediaService(repository.NewMemoryMedia(store), tx, logger, n),
	}
}

func as(role domain.Role, id string) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{UserID: id, Role: role, Device: "test"})
}

// seed кладёт товар напрямую в хранилище, минуя журнал
func (e *testEnv) seed(t *testing.T, p domain.Product) domain.Product {
	t.Helper()
	if p.Price.IsZero() {
		p.Price = decimal.NewFromInt(100)
	}
	if p.Category == "" {
		p.Category = domain.CategorySupplements
	}
	p.IsActive = true
	require.NoError(t, e.store.Create(context.Background(), &p))
	return p
}

func (e *testEnv) stock(t *testing.T, id string) *domain.Product {
	t.Helper()
	p, err := e.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func requestData(t *testing.T, e audit.Entry) map[string]any {
	t.Helper()
	m, ok := e.RequestData.(map[string]any)
	require.True(t, ok, "request data is %T", e.RequestData)
	return m
}
