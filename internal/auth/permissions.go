package auth

import (
	"context"
	"errors"
	"fmt"

	"vedashop/internal/domain"
)

// Permission атомарная возможность, которой защищается изменение данных
type Permission string

const (
	ManageUsers    Permission = "manage_users"
	ManageProducts Permission = "manage_products"
	ManageOrders   Permission = "manage_orders"
	DeleteRecords  Permission = "delete_records"
	ViewFinancials Permission = "view_financials"
	ManageSettings Permission = "manage_settings"
	PublishContent Permission = "publish_content"
	ManageMedia    Permission = "manage_media"
)

// RoleDefinition роль и её набор прав
type RoleDefinition struct {
	Role        domain.Role  `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// matrix статическая таблица; привилегии строго убывают сверху вниз
var matrix = []RoleDefinition{
	{Role: domain.RoleSuperAdmin, Permissions: []Permission{ManageUsers, ManageProducts, ManageOrders, DeleteRecords, ViewFinancials, ManageSettings, PublishContent, ManageMedia}},
	{Role: domain.RoleAdmin, Permissions: []Permission{ManageUsers, ManageProducts, ManageOrders, ManageMedia, PublishContent, ViewFinancials}},
	{Role: domain.RoleEditor, Permissions: []Permission{ManageProducts, ManageMedia}},
	{Role: domain.RoleViewer, Permissions: []Permission{}},
	{Role: domain.RoleUser, Permissions: []Permission{}},
}

// Can чистая функция: есть ли у роли право
func Can(role domain.Role, perm Permission) bool {
	for _, def := range matrix {
		if def.Role != role {
			continue
		}
		for _, p := range def.Permissions {
			if p == perm {
				return true
			}
		}
		return false
	}
	return false
}

// Permissions копия набора прав роли
func Permissions(role domain.Role) []Permission {
	for _, def := range matrix {
		if def.Role == role {
			return append([]Permission{}, def.Permissions...)
		}
	}
	return []Permission{}
}

// Roles вся матрица (копия)
func Roles() []RoleDefinition {
	out := make([]RoleDefinition, 0, len(matrix))
	for _, def := range matrix {
		out = append(out, RoleDefinition{Role: def.Role, Permissions: append([]Permission{}, def.Permissions...)})
	}
	return out
}

// ErrUnauthenticated вызов без известного пользователя
var ErrUnauthenticated = errors.New("authentication required")

// PermissionError действие без нужного права
type PermissionError struct {
	Role       domain.Role
	Permission Permission
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: role %q lacks %q", e.Role, e.Permission)
}

// Actor кто выполняет действие
type Actor struct {
	UserID string
	Role   domain.Role
	Device string
}

type actorKey struct{}

// WithActor кладёт актора в контекст
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom достаёт актора из контекста
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// Authorize проверка права актора
func Authorize(a Actor, perm Permission) error {
	if a.UserID == "" {
		return ErrUnauthenticated
	}
	if !Can(a.Role, perm) {
		return &PermissionError{Role: a.Role, Permission: perm}
	}
	return nil
}
