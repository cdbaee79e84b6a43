package service

import (
	"context"
	"errors"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
)

// Guard единая точка проверки прав для всех изменяющих операций
type Guard struct {
	audit *audit.Logger
}

func NewGuard(logger *audit.Logger) *Guard {
	return &Guard{audit: logger}
}

// Require проверяет право актора из контекста. При отказе пишет одну запись
// WARNING "Permission Denied" и ничего не меняет.
func (g *Guard) Require(ctx context.Context, perm auth.Permission, function string) (auth.Actor, error) {
	actor, _ := auth.ActorFrom(ctx)
	err := auth.Authorize(actor, perm)
	if err == nil {
		return actor, nil
	}
	code := "PERMISSION_DENIED"
	if errors.Is(err, auth.ErrUnauthenticated) {
		code = "UNAUTHENTICATED"
	}
	g.audit.Warn("Permission Denied", audit.Context{
		ErrorCode:    code,
		FunctionName: function,
		UserID:       actor.UserID,
		Device:       actor.Device,
		RequestData:  map[string]any{"permission": perm, "role": actor.Role},
	})
	return actor, err
}

// Can проверка без записи в журнал, для выбора видимости данных
func (g *Guard) Can(ctx context.Context, perm auth.Permission) bool {
	actor, _ := auth.ActorFrom(ctx)
	return auth.Authorize(actor, perm) == nil
}

// Authenticated требует только наличие пользователя
func (g *Guard) Authenticated(ctx context.Context) (auth.Actor, error) {
	actor, ok := auth.ActorFrom(ctx)
	if !ok || actor.UserID == "" {
		return actor, ErrUnauthenticated
	}
	return actor, nil
}

// entry контекст записи журнала от имени актора
func entry(actor auth.Actor, function string, data any) audit.Context {
	return audit.Context{
		FunctionName: function,
		UserID:       actor.UserID,
		Device:       actor.Device,
		RequestData:  data,
	}
}
