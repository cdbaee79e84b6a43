package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

// UserPatch частичное изменение пользователя; nil поле не меняется
type UserPatch struct {
	Role      *domain.Role `json:"role,omitempty"`
	IsBlocked *bool        `json:"is_blocked,omitempty"`
}

// lastLoginStep не чаще этого обновляем LastLogin, чтобы не писать на каждый запрос
const lastLoginStep = time.Minute

// UserService управление учётными записями
type UserService struct {
	users    repository.UserRepository
	audit    *audit.Logger
	guard    *Guard
	notifier notify.Notifier
	validate *validator.Validate
	now      func() time.Time
}

func NewUserService(users repository.UserRepository, logger *audit.Logger, n notify.Notifier) *UserService {
	return &UserService{
		users:    users,
		audit:    logger,
		guard:    NewGuard(logger),
		notifier: n,
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Resolve находит действующего пользователя для запроса и отмечает время входа.
// Заблокированные и удалённые считаются неаутентифицированными.
func (s *UserService) Resolve(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if u.IsBlocked || u.IsDeleted {
		return nil, ErrUnauthenticated
	}
	now := s.now()
	if u.LastLogin == nil || now.Sub(*u.LastLogin) >= lastLoginStep {
		if err := s.users.TouchLogin(ctx, u.ID, now); err != nil {
			return nil, fmt.Errorf("stamp last login %s: %w", u.ID, err)
		}
		u.LastLogin = &now
	}
	return u, nil
}

// ListUsers без удалённых
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if _, err := s.guard.Require(ctx, auth.ManageUsers, "ListUsers"); err != nil {
		return nil, err
	}
	return s.users.List(ctx, false)
}

func (s *UserService) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	actor, err := s.guard.Require(ctx, auth.ManageUsers, "CreateUser")
	if err != nil {
		return nil, err
	}
	u.ID = ""
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	u.IsDeleted = false
	if err := validateStruct(s.validate, u); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, u.Email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, u.Email)
	} else if !isNotFound(err) {
		return nil, err
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	s.audit.Info("User Created", entry(actor, "CreateUser", map[string]any{
		"targetUserId": u.ID, "email": u.Email, "role": u.Role,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "User created")
	return &u, nil
}

// UpdateUser меняет роль и блокировку
func (s *UserService) UpdateUser(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, invalid("role", "must be one of: super_admin admin editor viewer user")
	}
	actor, err := s.guard.Require(ctx, auth.ManageUsers, "UpdateUser")
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	if u.IsDeleted {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	changes := map[string]any{"targetUserId": id}
	if patch.Role != nil {
		changes["oldRole"], changes["newRole"] = u.Role, *patch.Role
		u.Role = *patch.Role
	}
	if patch.IsBlocked != nil {
		changes["isBlocked"] = *patch.IsBlocked
		u.IsBlocked = *patch.IsBlocked
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.audit.Info("User Updated", entry(actor, "UpdateUser", changes))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "User updated")
	return u, nil
}

// DeleteUser мягкое удаление по умолчанию (запись скрывается и блокируется),
// hard удаляет запись полностью
func (s *UserService) DeleteUser(ctx context.Context, id string, hard bool) error {
	actor, err := s.guard.Require(ctx, auth.ManageUsers, "DeleteUser")
	if err != nil {
		return err
	}
	if id == actor.UserID {
		return invalid("id", "cannot delete yourself")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("user %s: %w", id, err)
	}
	if hard {
		err = s.users.Delete(ctx, id)
	} else {
		u.IsDeleted = true
		u.IsBlocked = true
		err = s.users.Update(ctx, u)
	}
	if err != nil {
		return err
	}
	s.audit.Warn("User Deleted", entry(actor, "DeleteUser", map[string]any{
		"targetUserId": id, "email": u.Email, "hard": hard,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "User deleted")
	return nil
}

// Roles матрица прав для экрана ролей
func (s *UserService) Roles(ctx context.Context) ([]auth.RoleDefinition, error) {
	if _, err := s.guard.Require(ctx, auth.ManageUsers, "ListRoles"); err != nil {
		return nil, err
	}
	return auth.Roles(), nil
}
