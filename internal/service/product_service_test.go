package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/repository"
)

func validProduct() domain.Product {
	return domain.Product{
		Name:     "Triphala Churna",
		SKU:      "TRI-100",
		Price:    decimal.RequireFromString("249.00"),
		Category: domain.CategorySupplements,
		Stock:    20,
		IsActive: true,
		Tags:     []string{"digestion", "digestion", " "},
	}
}

func TestProductService_Create(t *testing.T) {
	env := setup(t, nil)
	p, err := env.products.Create(as(domain.RoleEditor, "editor-1"), validProduct())
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.True(t, p.InStock)
	require.Equal(t, []string{"digestion"}, p.Tags)

	got, err := env.products.GetByID(t.Context(), p.ID)
	require.NoError(t, err)
	require.Equal(t, p.SKU, got.SKU)

	logs := env.audit.Logs(audit.Filter{})
	require.Len(t, logs, 1)
	require.Equal(t, "Product Created", logs[0].Message)
}

func TestProductService_CreateValidation(t *testing.T) {
	cases := map[string]struct {
		mutate func(*domain.Product)
		field  string
	}{
		"name":     {func(p *domain.Product) { p.Name = "  " }, "name"},
		"sku":      {func(p *domain.Product) { p.SKU = "" }, "sku"},
		"price":    {func(p *domain.Product) { p.Price = decimal.Zero }, "price"},
		"category": {func(p *domain.Product) { p.Category = "food" }, "category"},
		"stock":    {func(p *domain.Product) { p.Stock = -1 }, "stock"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := setup(t, nil)
			p := validProduct()
			tc.mutate(&p)
			_, err := env.products.Create(as(domain.RoleEditor, "editor-1"), p)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)

			list, _ := env.products.List(t.Context(), repository.ProductFilter{})
			require.Empty(t, list)
			logs := env.audit.Logs(audit.Filter{})
			require.Len(t, logs, 1)
			require.Equal(t, "Product Save Failed", logs[0].Message)
			require.Equal(t, "PRODUCT_SAVE_FAIL", logs[0].ErrorCode)
			require.Equal(t, audit.SeverityError, logs[0].Severity)
		})
	}
}

func TestProductService_DuplicateSKU(t *testing.T) {
	env := setup(t, nil)
	ctx := as(domain.RoleEditor, "editor-1")
	_, err := env.products.Create(ctx, validProduct())
	require.NoError(t, err)

	dup := validProduct()
	dup.SKU = "tri-100"
	_, err = env.products.Create(ctx, dup)
	require.ErrorIs(t, err, ErrDuplicateSKU)

	// неактивный товар может занять SKU
	dup.IsActive = false
	_, err = env.products.Create(ctx, dup)
	require.NoError(t, err)
}

func TestProductService_UpdateKeepsCreatedAtAndLogsStockEdit(t *testing.T) {
	env := setup(t, nil)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	orig := validProduct()
	orig.ID = "p1"
	orig.CreatedAt = created
	require.NoError(t, env.store.Create(t.Context(), &orig))

	upd := orig.Clone()
	upd.CreatedAt = time.Time{}
	upd.Stock = 3
	upd.Name = "Triphala Churna 200g"
	got, err := env.products.Update(as(domain.RoleAdmin, "admin-1"), upd)
	require.NoError(t, err)
	require.Equal(t, created, got.CreatedAt)
	require.Equal(t, 3, env.stock(t, "p1").Stock)

	logs := env.audit.Logs(audit.Filter{})
	require.Len(t, logs, 2)
	require.Equal(t, "Stock Adjusted (Edit)", logs[0].Message)
	require.EqualValues(t, 20, requestData(t, logs[0])["oldStock"])
	require.EqualValues(t, 3, requestData(t, logs[0])["newStock"])
	require.Equal(t, "Product Updated", logs[1].Message)
}

func TestProductService_UpdateMissing(t *testing.T) {
	env := setup(t, nil)
	p := validProduct()
	p.ID = "ghost"
	_, err := env.products.Update(as(domain.RoleAdmin, "admin-1"), p)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductService_DeleteRequiresDeleteRecords(t *testing.T) {
	env := setup(t, nil)
	p := env.seed(t, domain.Product{ID: "p1", Name: "A", SKU: "A", Stock: 1})

	err := env.products.Delete(as(domain.RoleAdmin, "admin-2"), p.ID)
	var perr *auth.PermissionError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, auth.DeleteRecords, perr.Permission)

	require.NoError(t, env.products.Delete(as(domain.RoleSuperAdmin, "admin-1"), p.ID))
	_, err = env.products.GetByID(t.Context(), p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	logs := env.audit.Logs(audit.Filter{Severity: audit.SeverityWarning})
	require.Len(t, logs, 2)
	require.Equal(t, "Product Deleted", logs[0].Message)
	require.Equal(t, "Permission Denied", logs[1].Message)
}

func TestProductService_InactiveVisibility(t *testing.T) {
	env := setup(t, nil)
	env.seed(t, domain.Product{ID: "on", Name: "On", SKU: "ON"})
	off := domain.Product{ID: "off", Name: "Off", SKU: "OFF", Price: decimal.NewFromInt(10), Category: domain.CategoryTea}
	require.NoError(t, env.store.Create(t.Context(), &off))

	all := repository.ProductFilter{Status: repository.StatusAll}
	list, err := env.products.List(as(domain.RoleUser, "user-1"), all)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "on", list[0].ID)

	_, err = env.products.GetByID(t.Context(), "off")
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err = env.products.List(as(domain.RoleEditor, "editor-1"), all)
	require.NoError(t, err)
	require.Len(t, list, 2)

	got, err := env.products.GetByID(as(domain.RoleEditor, "editor-1"), "off")
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.Zero(t, env.audit.Len())
}
