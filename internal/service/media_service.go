package service

import (
	"context"
	"fmt"
	"strings"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

// MediaMetadataPatch слияние метаданных: nil поле не меняется, Tags заменяются целиком
type MediaMetadataPatch struct {
	Title       *string  `json:"title,omitempty"`
	Alt         *string  `json:"alt,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// MediaService медиатека: просмотр, метаданные, модерация и удаление
type MediaService struct {
	media    repository.MediaRepository
	tx       repository.TxManager
	audit    *audit.Logger
	guard    *Guard
	notifier notify.Notifier
}

func NewMediaService(media repository.MediaRepository, tx repository.TxManager, logger *audit.Logger, n notify.Notifier) *MediaService {
	return &MediaService{media: media, tx: tx, audit: logger, guard: NewGuard(logger), notifier: n}
}

// List вся медиатека
func (s *MediaService) List(ctx context.Context, f repository.MediaFilter) ([]domain.MediaItem, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "must be one of: pending approved rejected")
	}
	if _, err := s.guard.Require(ctx, auth.ManageMedia, "ListMedia"); err != nil {
		return nil, err
	}
	return s.media.List(ctx, f)
}

// Mine файлы, загруженные текущим пользователем; право не нужно
func (s *MediaService) Mine(ctx context.Context) ([]domain.MediaItem, error) {
	actor, err := s.guard.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return s.media.List(ctx, repository.MediaFilter{UploadedBy: actor.UserID})
}

func (s *MediaService) UpdateMetadata(ctx context.Context, id string, patch MediaMetadataPatch) (*domain.MediaItem, error) {
	actor, err := s.guard.Require(ctx, auth.ManageMedia, "UpdateMediaMetadata")
	if err != nil {
		return nil, err
	}
	var updated *domain.MediaItem
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		m, err := s.media.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("media %s: %w", id, err)
		}
		md := &m.Metadata
		if patch.Title != nil {
			md.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Alt != nil {
			md.Alt = strings.TrimSpace(*patch.Alt)
		}
		if patch.Description != nil {
			md.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Tags != nil {
			md.Tags = domain.NormalizeTags(patch.Tags)
		}
		updated = m
		return s.media.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info("Media Metadata Updated", entry(actor, "UpdateMediaMetadata", map[string]any{
		"mediaId": id, "metadata": updated.Metadata,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Media details saved")
	return updated, nil
}

// UpdateStatus модерация: pending, approved или rejected
func (s *MediaService) UpdateStatus(ctx context.Context, id string, status domain.MediaStatus) (*domain.MediaItem, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be one of: pending approved rejected")
	}
	actor, err := s.guard.Require(ctx, auth.ManageMedia, "UpdateMediaStatus")
	if err != nil {
		return nil, err
	}
	var (
		updated *domain.MediaItem
		old     domain.MediaStatus
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		m, err := s.media.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("media %s: %w", id, err)
		}
		old = m.Status
		m.Status = status
		updated = m
		return s.media.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	s.audit.Info("Media Status Updated: "+string(status), entry(actor, "UpdateMediaStatus", map[string]any{
		"mediaId": id, "oldStatus": old, "status": status,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Media "+string(status))
	return updated, nil
}

// Delete безвозвратное удаление записи
func (s *MediaService) Delete(ctx context.Context, id string) error {
	actor, err := s.guard.Require(ctx, auth.ManageMedia, "DeleteMedia")
	if err != nil {
		return err
	}
	var removed *domain.MediaItem
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		m, err := s.media.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("media %s: %w", id, err)
		}
		removed = m
		return s.media.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.audit.Warn("Media Deleted", entry(actor, "DeleteMedia", map[string]any{
		"mediaId": removed.ID, "name": removed.Name, "uploadedBy": removed.UploadedBy,
	}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Media deleted")
	return nil
}
