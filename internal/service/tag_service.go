package service

import (
	"context"
	"slices"
	"strings"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

// TagCount тег и число товаров с ним
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagService реестр тегов, собранный по всем товарам
type TagService struct {
	products repository.ProductRepository
	tx       repository.TxManager
	audit    *audit.Logger
	guard    *Guard
	notifier notify.Notifier
}

func NewTagService(products repository.ProductRepository, tx repository.TxManager, logger *audit.Logger, n notify.Notifier) *TagService {
	return &TagService{products: products, tx: tx, audit: logger, guard: NewGuard(logger), notifier: n}
}

// Tags сортировка: по убыванию количества, затем по имени
func (s *TagService) Tags(ctx context.Context) ([]TagCount, error) {
	all, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range all {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// RenameTag переименование со слиянием: товар, у которого уже есть newName,
// получает его ровно один раз. Все записи меняются в одной транзакции.
func (s *TagService) RenameTag(ctx context.Context, oldName, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, invalid("new_name", "is required")
	}
	if oldName == "" {
		return 0, invalid("name", "is required")
	}
	actor, err := s.guard.Require(ctx, auth.ManageSettings, "RenameTag")
	if err != nil {
		return 0, err
	}
	if oldName == newName {
		return 0, nil
	}
	affected, err := s.rewrite(ctx, oldName, func(tags []string) []string {
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if t == oldName {
				t = newName
			}
			out = append(out, t)
		}
		return domain.NormalizeTags(out)
	})
	if err != nil {
		return 0, err
	}
	s.audit.Info("Tag Renamed/Merged", entry(actor, "RenameTag", map[string]any{
		"oldName": oldName, "newName": newName, "productsAffected": affected,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Tag updated across products")
	return affected, nil
}

// DeleteTag убирает тег у всех товаров
func (s *TagService) DeleteTag(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, invalid("name", "is required")
	}
	actor, err := s.guard.Require(ctx, auth.ManageSettings, "DeleteTag")
	if err != nil {
		return 0, err
	}
	affected, err := s.rewrite(ctx, name, func(tags []string) []string {
		return slices.DeleteFunc(tags, func(t string) bool { return t == name })
	})
	if err != nil {
		return 0, err
	}
	s.audit.Warn("Tag Deleted", entry(actor, "DeleteTag", map[string]any{
		"tagName": name, "productsAffected": affected,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Tag deleted")
	return affected, nil
}

// rewrite применяет fn к тегам каждого товара с тегом tag; всё или ничего
func (s *TagService) rewrite(ctx context.Context, tag string, fn func([]string) []string) (int, error) {
	affected := 0
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		affected = 0
		list, err := s.products.List(ctx, repository.ProductFilter{Tags: []string{tag}})
		if err != nil {
			return err
		}
		for i := range list {
			p := &list[i]
			p.Tags = fn(p.Tags)
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
