package service

import (
	"context"
	"encoding/json"
	"fmt"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/cache"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
)

const (
	alertConfigKey  = "inventory_alerts"
	alertFlagPrefix = "alerts:notified:"
)

// AlertReport результат проверки низких остатков
type AlertReport struct {
	Items []domain.Product `json:"items"`
	// DefaultThreshold порог для товаров без своего reorder_point
	DefaultThreshold int                `json:"default_threshold"`
	Config           domain.AlertConfig `json:"config"`
	Notified         bool               `json:"notified"`
}

// AlertService уведомления о низком остатке, не чаще раза за сессию
type AlertService struct {
	inventory *InventoryService
	settings  repository.SettingsRepository
	flags     *cache.Cache
	audit     *audit.Logger
	guard     *Guard
	notifier  notify.Notifier
	recipient string
}

func NewAlertService(inventory *InventoryService, settings repository.SettingsRepository, flags *cache.Cache, logger *audit.Logger, n notify.Notifier, recipient string) *AlertService {
	if recipient == "" {
		recipient = "admin@veda.com"
	}
	return &AlertService{
		inventory: inventory,
		settings:  settings,
		flags:     flags,
		audit:     logger,
		guard:     NewGuard(logger),
		notifier:  n,
		recipient: recipient,
	}
}

// Config текущие настройки; по умолчанию всё выключено
func (s *AlertService) Config(ctx context.Context) (domain.AlertConfig, error) {
	var cfg domain.AlertConfig
	raw, err := s.settings.Get(ctx, alertConfigKey)
	if err != nil {
		if isNotFound(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.AlertConfig{}, fmt.Errorf("decode %s: %w", alertConfigKey, err)
	}
	return cfg, nil
}

// SetConfig сохраняет настройки и сбрасывает отметку об уже показанном уведомлении
func (s *AlertService) SetConfig(ctx context.Context, cfg domain.AlertConfig) (domain.AlertConfig, error) {
	actor, err := s.guard.Require(ctx, auth.ManageProducts, "SetAlertConfig")
	if err != nil {
		return domain.AlertConfig{}, err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return domain.AlertConfig{}, err
	}
	if err := s.settings.Put(ctx, alertConfigKey, raw); err != nil {
		return domain.AlertConfig{}, err
	}
	s.flags.DeleteByPrefix(alertFlagPrefix)
	s.audit.Info("Alert Settings Updated", entry(actor, "SetAlertConfig", cfg))
	notify.Send(ctx, s.notifier, notify.KindSuccess, "Alert settings saved")
	return cfg, nil
}

// Check собирает товары ниже порога и уведомляет один раз за сессию
func (s *AlertService) Check(ctx context.Context) (*AlertReport, error) {
	actor, err := s.guard.Require(ctx, auth.ManageProducts, "CheckStockAlerts")
	if err != nil {
		return nil, err
	}
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.inventory.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	report := &AlertReport{Items: items, DefaultThreshold: s.inventory.DefaultReorderPoint(), Config: cfg}
	if !cfg.Dashboard || len(items) == 0 {
		return report, nil
	}
	if !s.flags.Add(alertFlagPrefix + actor.UserID) {
		return report, nil
	}
	report.Notified = true
	notify.Send(ctx, s.notifier, notify.KindWarning, fmt.Sprintf("Alert: %d products are below reorder level.", len(items)))

	if cfg.Email {
		skus := make([]string, 0, len(items))
		for _, p := range items {
			skus = append(skus, p.SKU)
		}
		s.audit.Info("Automated Stock Alert Email Sent", entry(actor, "CheckStockAlerts", map[string]any{
			"recipient": s.recipient,
			"itemCount": len(items),
			"items":     skus,
		}))
		notify.Send(ctx, s.notifier, notify.KindInfo, "Stock report sent to admin email")
	}
	return report, nil
}
