package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vedashop/internal/domain"
)

var allPermissions = []Permission{ManageUsers, ManageProducts, ManageOrders, DeleteRecords, ViewFinancials, ManageSettings, PublishContent, ManageMedia}

func TestCan_Matrix(t *testing.T) {
	require.True(t, Can(domain.RoleSuperAdmin, DeleteRecords))
	require.True(t, Can(domain.RoleSuperAdmin, ManageSettings))
	require.True(t, Can(domain.RoleAdmin, ManageOrders))
	require.False(t, Can(domain.RoleAdmin, DeleteRecords))
	require.False(t, Can(domain.RoleAdmin, ManageSettings))
	require.True(t, Can(domain.RoleEditor, ManageProducts))
	require.False(t, Can(domain.RoleEditor, ManageOrders))
	for _, p := range allPermissions {
		require.False(t, Can(domain.RoleViewer, p))
		require.False(t, Can(domain.RoleUser, p))
		require.False(t, Can("ghost", p))
	}
}

func TestCan_DecreasingPrivilege(t *testing.T) {
	chain := []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleEditor, domain.RoleViewer}
	for i := 1; i < len(chain); i++ {
		for _, p := range allPermissions {
			if Can(chain[i], p) {
				require.Truef(t, Can(chain[i-1], p), "%s has %s but %s does not", chain[i], p, chain[i-1])
			}
		}
	}
}

func TestCan_IsPure(t *testing.T) {
	first := make(map[Permission]bool)
	for _, p := range allPermissions {
		first[p] = Can(domain.RoleAdmin, p)
	}
	// обратный порядок вызовов не влияет на результат
	for i := len(allPermissions) - 1; i >= 0; i-- {
		p := allPermissions[i]
		require.Equal(t, first[p], Can(domain.RoleAdmin, p))
	}
}

func TestPermissions_ReturnsCopy(t *testing.T) {
	ps := Permissions(domain.RoleEditor)
	require.Len(t, ps, 2)
	ps[0] = DeleteRecords
	require.False(t, Can(domain.RoleEditor, DeleteRecords))
	require.Len(t, Roles(), 5)
}

func TestAuthorize(t *testing.T) {
	require.ErrorIs(t, Authorize(Actor{}, ManageProducts), ErrUnauthenticated)
	require.NoError(t, Authorize(Actor{UserID: "u1", Role: domain.RoleEditor}, ManageProducts))

	err := Authorize(Actor{UserID: "u2", Role: domain.RoleViewer}, ManageProducts)
	var pe *PermissionError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, domain.RoleViewer, pe.Role)
	require.Equal(t, ManageProducts, pe.Permission)
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	require.False(t, ok)
	ctx := WithActor(context.Background(), Actor{UserID: "admin-1", Role: domain.RoleSuperAdmin})
	a, ok := ActorFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "admin-1", a.UserID)
}
