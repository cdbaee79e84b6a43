package repository

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"vedashop/internal/domain"
)

// MemoryUsers репозиторий пользователей поверх общего хранилища
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Create(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	if u.ID == "" {
		u.ID = "user-" + uuid.NewString()
	} else if _, ok := mu.store.usersByID[u.ID]; ok {
		return ErrAlreadyExists
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = mu.store.now()
	}
	mu.store.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	u, ok := mu.store.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

// GetByEmail ищет среди неудалённых, без учёта регистра
func (mu *MemoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	for _, u := range mu.store.usersByID {
		if !u.IsDeleted && strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mu *MemoryUsers) Update(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	if _, ok := mu.store.usersByID[u.ID]; !ok {
		return ErrNotFound
	}
	mu.store.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) TouchLogin(ctx context.Context, id string, at time.Time) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	u, ok := mu.store.usersByID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &at
	mu.store.usersByID[id] = u
	return nil
}

// Delete физическое удаление; мягкое удаление делается через Update
func (mu *MemoryUsers) Delete(ctx context.Context, id string) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	if _, ok := mu.store.usersByID[id]; !ok {
		return ErrNotFound
	}
	delete(mu.store.usersByID, id)
	return nil
}

func (mu *MemoryUsers) List(ctx context.Context, includeDeleted bool) ([]domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	out := make([]domain.User, 0, len(mu.store.usersByID))
	for _, u := range mu.store.usersByID {
		if u.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// MemorySettings хранилище настроек
type MemorySettings struct{ store *MemoryStore }

func NewMemorySettings(store *MemoryStore) *MemorySettings { return &MemorySettings{store: store} }

var _ SettingsRepository = (*MemorySettings)(nil)

func (ms *MemorySettings) Get(ctx context.Context, key string) ([]byte, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	v, ok := ms.store.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (ms *MemorySettings) Put(ctx context.Context, key string, value []byte) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	ms.store.settings[key] = slices.Clone(value)
	return nil
}
