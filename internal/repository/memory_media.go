package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"vedashop/internal/domain"
)

// MemoryMedia медиатека поверх общего хранилища
type MemoryMedia struct{ store *MemoryStore }

func NewMemoryMedia(store *MemoryStore) *MemoryMedia { return &MemoryMedia{store: store} }

var _ MediaRepository = (*MemoryMedia)(nil)

func (mm *MemoryMedia) Create(ctx context.Context, m *domain.MediaItem) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	if m.ID == "" {
		m.ID = "media-" + uuid.NewString()
	} else if _, ok := mm.store.mediaByID[m.ID]; ok {
		return ErrAlreadyExists
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = mm.store.now()
	}
	mm.store.mediaByID[m.ID] = m.Clone()
	return nil
}

func (mm *MemoryMedia) GetByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	mm.store.rlock(ctx)
	defer mm.store.runlock(ctx)
	m, ok := mm.store.mediaByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := m.Clone()
	return &cp, nil
}

func (mm *MemoryMedia) Update(ctx context.Context, m *domain.MediaItem) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	if _, ok := mm.store.mediaByID[m.ID]; !ok {
		return ErrNotFound
	}
	mm.store.mediaByID[m.ID] = m.Clone()
	return nil
}

func (mm *MemoryMedia) Delete(ctx context.Context, id string) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	if _, ok := mm.store.mediaByID[id]; !ok {
		return ErrNotFound
	}
	delete(mm.store.mediaByID, id)
	return nil
}

// List новые первыми
func (mm *MemoryMedia) List(ctx context.Context, f MediaFilter) ([]domain.MediaItem, error) {
	mm.store.rlock(ctx)
	defer mm.store.runlock(ctx)
	out := make([]domain.MediaItem, 0)
	for _, m := range mm.store.mediaByID {
		if !f.match(&m) {
			continue
		}
		out = append(out, m.Clone())
	}
	slices.SortFunc(out, func(a, b domain.MediaItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (f MediaFilter) match(m *domain.MediaItem) bool {
	if f.UploadedBy != "" && m.UploadedBy != f.UploadedBy {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		return containsIgnoreCase(m.Name, s) || containsIgnoreCase(m.Metadata.Title, s) || anyContains(m.Metadata.Tags, s)
	}
	return true
}
