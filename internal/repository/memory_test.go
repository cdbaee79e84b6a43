package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vedashop/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Name: "Ashwagandha", SKU: "ASH-1", Price: decimal.NewFromInt(10), Stock: 5, Tags: []string{" organic ", "organic", ""}}
	require.NoError(t, store.Create(ctx, &p))
	require.NotEmpty(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.InStock)
	require.Equal(t, []string{"organic"}, got.Tags)

	// stored copy is not shared with caller
	got.Tags[0] = "mutated"
	again, _ := store.GetByID(ctx, p.ID)
	require.Equal(t, "organic", again.Tags[0])

	p.Stock = 0
	require.NoError(t, store.Update(ctx, &p))
	got, _ = store.GetByID(ctx, p.ID)
	require.False(t, got.InStock)

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Update(ctx, &p), ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, p.ID), ErrNotFound)
}

func TestMemoryStore_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := domain.Product{ID: "p1", Name: "A", SKU: "A", Price: decimal.NewFromInt(1)}
	require.NoError(t, store.Create(ctx, &p))
	require.ErrorIs(t, store.Create(ctx, &p), ErrAlreadyExists)
}

func TestMemoryTx_TransactionalUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	orders := NewMemoryOrders(store)

	p := domain.Product{Name: "A", SKU: "S1", Price: decimal.NewFromInt(10), Stock: 5}
	require.NoError(t, store.Create(ctx, &p))

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, err := store.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		pp.Stock -= 3
		if err := store.Update(ctx, pp); err != nil {
			return err
		}
		o := domain.Order{UserID: "user-1", Items: []domain.OrderItem{{ProductID: p.ID, Quantity: 3}}, Status: domain.OrderStatusPending}
		return orders.Create(ctx, &o)
	})
	require.NoError(t, err)

	pp, _ := store.GetByID(ctx, p.ID)
	require.Equal(t, 2, pp.Stock)
	list, _ := orders.List(ctx, OrderFilter{UserID: "user-1"})
	require.Len(t, list, 1)
}

func TestMemoryTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)
	orders := NewMemoryOrders(store)

	p := domain.Product{Name: "A", SKU: "S1", Price: decimal.NewFromInt(10), Stock: 5}
	require.NoError(t, store.Create(ctx, &p))

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, _ := store.GetByID(ctx, p.ID)
		pp.Stock = 0
		if err := store.Update(ctx, pp); err != nil {
			return err
		}
		o := domain.Order{UserID: "user-1"}
		if err := orders.Create(ctx, &o); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	pp, _ := store.GetByID(ctx, p.ID)
	require.Equal(t, 5, pp.Stock)
	require.True(t, pp.InStock)
	list, _ := orders.List(ctx, OrderFilter{})
	require.Empty(t, list)
}

func TestList_Filtering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	add := func(i int, name string, price int64, cat domain.Category, active bool, tags ...string) {
		p := domain.Product{
			Name: name, SKU: "SKU-" + name, Price: decimal.NewFromInt(price), Stock: 1,
			Category: cat, IsActive: active, Tags: tags, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, store.Create(ctx, &p))
	}
	add(1, "Tulsi", 100, domain.CategoryTea, true, "organic")
	add(2, "Neem", 50, domain.CategorySkincare, false, "detox")
	add(3, "Brahmi", 150, domain.CategorySupplements, true)

	list, _ := store.List(ctx, ProductFilter{})
	require.Len(t, list, 3)
	require.Equal(t, "Brahmi", list[0].Name, "newest first")

	list, _ = store.List(ctx, ProductFilter{Search: "ORGAN"})
	require.Len(t, list, 1)
	require.Equal(t, "Tulsi", list[0].Name)

	list, _ = store.List(ctx, ProductFilter{SKU: "sku-ne"})
	require.Len(t, list, 1)

	list, _ = store.List(ctx, ProductFilter{Categories: []domain.Category{domain.CategoryTea, domain.CategorySkincare}})
	require.Len(t, list, 2)

	list, _ = store.List(ctx, ProductFilter{Tags: []string{"detox", "missing"}})
	require.Len(t, list, 1)

	list, _ = store.List(ctx, ProductFilter{Status: StatusInactive})
	require.Len(t, list, 1)
	require.Equal(t, "Neem", list[0].Name)

	min := decimal.NewFromInt(100)
	list, _ = store.List(ctx, ProductFilter{MinPrice: &min})
	for _, p := range list {
		require.False(t, p.Price.LessThan(min))
	}
	require.Len(t, list, 2)

	max := decimal.NewFromInt(100)
	list, _ = store.List(ctx, ProductFilter{MaxPrice: &max})
	require.Len(t, list, 2)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUsers(store)

	u := domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleEditor}
	require.NoError(t, users.Create(ctx, &u))
	require.NotEmpty(t, u.ID)

	got, err := users.GetByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	at := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, users.TouchLogin(ctx, u.ID, at))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, at, *got.LastLogin)
	require.Equal(t, domain.RoleEditor, got.Role)
	require.ErrorIs(t, users.TouchLogin(ctx, "ghost", at), ErrNotFound)

	u.IsDeleted = true
	require.NoError(t, users.Update(ctx, &u))
	_, err = users.GetByEmail(ctx, u.Email)
	require.ErrorIs(t, err, ErrNotFound)

	list, _ := users.List(ctx, false)
	require.Empty(t, list)
	list, _ = users.List(ctx, true)
	require.Len(t, list, 1)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	settings := NewMemorySettings(NewMemoryStore())

	_, err := settings.Get(ctx, "inventory_alerts")
	require.ErrorIs(t, err, ErrNotFound)

	raw := []byte(`{"dashboard":true}`)
	require.NoError(t, settings.Put(ctx, "inventory_alerts", raw))
	raw[0] = 'x'
	got, err := settings.Get(ctx, "inventory_alerts")
	require.NoError(t, err)
	require.JSONEq(t, `{"dashboard":true}`, string(got))
}

func TestMemoryMedia(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	media := NewMemoryMedia(store)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	items := []domain.MediaItem{
		{ID: "m1", Name: "Ashwagandha.jpg", Type: domain.MediaImage, UploadedBy: "admin-1", Status: domain.MediaApproved, CreatedAt: base},
		{ID: "m2", Name: "review.mp4", Type: domain.MediaVideo, UploadedBy: "user-1", Status: domain.MediaPending, CreatedAt: base.Add(time.Hour),
			Metadata: domain.MediaMetadata{Title: "Unboxing", Tags: []string{"tulsi"}}},
	}
	for i := range items {
		require.NoError(t, media.Create(ctx, &items[i]))
	}
	require.ErrorIs(t, media.Create(ctx, &domain.MediaItem{ID: "m1"}), ErrAlreadyExists)

	fresh := domain.MediaItem{Name: "leaflet.pdf", Type: domain.MediaDocument}
	require.NoError(t, media.Create(ctx, &fresh))
	require.True(t, strings.HasPrefix(fresh.ID, "media-"))
	require.False(t, fresh.CreatedAt.IsZero())

	list, err := media.List(ctx, MediaFilter{UploadedBy: "user-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "m2", list[0].ID)

	list, _ = media.List(ctx, MediaFilter{Search: "TULSI"})
	require.Len(t, list, 1)
	list, _ = media.List(ctx, MediaFilter{Status: domain.MediaApproved, Type: domain.MediaImage})
	require.Len(t, list, 1)

	got, err := media.GetByID(ctx, "m2")
	require.NoError(t, err)
	got.Metadata.Tags[0] = "changed"
	again, _ := media.GetByID(ctx, "m2")
	require.Equal(t, "tulsi", again.Metadata.Tags[0])

	got.Status = domain.MediaRejected
	require.NoError(t, media.Update(ctx, got))
	require.ErrorIs(t, media.Update(ctx, &domain.MediaItem{ID: "ghost"}), ErrNotFound)

	require.NoError(t, media.Delete(ctx, "m1"))
	require.ErrorIs(t, media.Delete(ctx, "m1"), ErrNotFound)
	_, err = media.GetByID(ctx, "m1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTx_RollsBackMedia(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	media := NewMemoryMedia(store)
	require.NoError(t, media.Create(ctx, &domain.MediaItem{ID: "m1", Name: "a.jpg"}))

	err := NewMemoryTx(store).WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, media.Delete(ctx, "m1"))
		return errors.New("abort")
	})
	require.Error(t, err)
	_, err = media.GetByID(ctx, "m1")
	require.NoError(t, err)
}
