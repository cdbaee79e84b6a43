// Package notify доставляет пользователю короткие уведомления о результате действий.
package notify

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks vedashop/internal/notify Notifier

import (
	"context"
	"errors"
	"log/slog"
)

// Kind тип уведомления
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notifier приёмник уведомлений
type Notifier interface {
	Notify(ctx context.Context, kind Kind, message string) error
}

// LogNotifier пишет уведомления в slog
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, kind Kind, message string) error {
	level := slog.LevelInfo
	switch kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	n.log.Log(ctx, level, "notification", "kind", kind, "message", message)
	return nil
}

// Multi рассылает уведомление во все приёмники и собирает ошибки
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, kind Kind, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, kind, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Send уведомляет и только логирует сбой: ошибка приёмника не прерывает операцию
func Send(ctx context.Context, n Notifier, kind Kind, message string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, kind, message); err != nil {
		slog.Warn("notification failed", "kind", kind, "err", err)
	}
}
