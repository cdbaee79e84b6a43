package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vedashop/internal/domain"
	"vedashop/internal/repository"
)

func stores(store *repository.MemoryStore) Stores {
	return Stores{
		Products: store,
		Users:    repository.NewMemoryUsers(store),
		Orders:   repository.NewMemoryOrders(store),
		Media:    repository.NewMemoryMedia(store),
	}
}

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, c.Products)

	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, c.Apply(ctx, stores(store)))

	admin, err := repository.NewMemoryUsers(store).GetByID(ctx, "admin-1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperAdmin, admin.Role)

	oil, err := store.GetByID(ctx, "brahmi-oil")
	require.NoError(t, err)
	require.False(t, oil.InStock)

	o, err := repository.NewMemoryOrders(store).GetByID(ctx, "ord-123")
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	// 2 × 399 + 249
	require.True(t, o.TotalAmount.Equal(decimal.RequireFromString("1047")), o.TotalAmount.String())

	media := repository.NewMemoryMedia(store)
	all, err := media.List(ctx, repository.MediaFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	pending, err := media.List(ctx, repository.MediaFilter{Status: domain.MediaPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "user-1", pending[0].UploadedBy)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - name: Amla Juice
    price: "149.50"
    category: supplements
    sku: AML-1
    stock: 3
    active: true
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	store := repository.NewMemoryStore()
	require.NoError(t, c.Apply(context.Background(), stores(store)))

	list, err := store.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Price.Equal(decimal.RequireFromString("149.5")))
}

func TestApply_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Parse([]byte("products: [::"))
	require.Error(t, err)

	c, err := Parse([]byte(`products: [{name: X, sku: X, price: "abc"}]`))
	require.NoError(t, err)
	require.Error(t, c.Apply(context.Background(), stores(repository.NewMemoryStore())))

	c, err = Parse([]byte(`orders: [{id: o1, status: pending, items: [{product_id: ghost, quantity: 1}]}]`))
	require.NoError(t, err)
	require.ErrorIs(t, c.Apply(context.Background(), stores(repository.NewMemoryStore())), repository.ErrNotFound)

	c, err = Parse([]byte(`media: [{id: m1, name: a.jpg, status: archived}]`))
	require.NoError(t, err)
	require.Error(t, c.Apply(context.Background(), stores(repository.NewMemoryStore())))
}
