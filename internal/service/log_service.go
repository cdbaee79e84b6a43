package service

import (
	"context"
	"io"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/notify"
)

// LogService доступ администратора к журналу аудита
type LogService struct {
	audit    *audit.Logger
	guard    *Guard
	notifier notify.Notifier
}

func NewLogService(logger *audit.Logger, n notify.Notifier) *LogService {
	return &LogService{audit: logger, guard: NewGuard(logger), notifier: n}
}

func (s *LogService) Logs(ctx context.Context, f audit.Filter) ([]audit.Entry, error) {
	if _, err := s.guard.Require(ctx, auth.ManageSettings, "ViewLogs"); err != nil {
		return nil, err
	}
	return s.audit.Logs(f), nil
}

// Export весь журнал в CSV без фильтра
func (s *LogService) Export(ctx context.Context, w io.Writer) error {
	if _, err := s.guard.Require(ctx, auth.ManageSettings, "ExportLogs"); err != nil {
		return err
	}
	return s.audit.ExportCSV(w)
}

// Clear очищает буфер; после очистки в журнале остаётся запись об этом
func (s *LogService) Clear(ctx context.Context) error {
	actor, err := s.guard.Require(ctx, auth.ManageSettings, "ClearLogs")
	if err != nil {
		return err
	}
	cleared := s.audit.Len()
	s.audit.Clear()
	s.audit.Warn("Logs Cleared", entry(actor, "ClearLogs", map[string]any{"entriesRemoved": cleared}))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Logs cleared")
	return nil
}
