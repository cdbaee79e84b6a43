package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vedashop/internal/audit"
	"vedashop/internal/domain"
	"vedashop/internal/notify"
	"vedashop/internal/notify/mocks"
)

func TestAlertService_NotifiesOncePerSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	env := setup(t, n)
	env.seed(t, domain.Product{ID: "p1", Name: "A", SKU: "LOW-1", Stock: 2})
	env.seed(t, domain.Product{ID: "p2", Name: "B", SKU: "LOW-2", Stock: 0, ReorderPoint: 5})
	env.seed(t, domain.Product{ID: "p3", Name: "C", SKU: "OK-1", Stock: 50})

	ctx := as(domain.RoleEditor, "editor-1")
	report, err := env.alerts.Check(ctx)
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	require.Equal(t, 10, report.DefaultThreshold)
	require.False(t, report.Notified, "disabled by default")

	gomock.InOrder(
		n.EXPECT().Notify(gomock.Any(), notify.KindSuccess, gomock.Any()).Return(nil),
		n.EXPECT().Notify(gomock.Any(), notify.KindWarning, "Alert: 2 products are below reorder level.").Return(nil),
		n.EXPECT().Notify(gomock.Any(), notify.KindInfo, "Stock report sent to admin email").Return(nil),
	)
	_, err = env.alerts.SetConfig(ctx, domain.AlertConfig{Dashboard: true, Email: true})
	require.NoError(t, err)

	report, err = env.alerts.Check(ctx)
	require.NoError(t, err)
	require.True(t, report.Notified)

	report, err = env.alerts.Check(ctx)
	require.NoError(t, err)
	require.False(t, report.Notified)

	logs := env.audit.Logs(audit.Filter{Search: "Automated Stock Alert"})
	require.Len(t, logs, 1)
	data := requestData(t, logs[0])
	require.Equal(t, "admin@veda.com", data["recipient"])
	require.EqualValues(t, 2, data["itemCount"])
	require.ElementsMatch(t, []any{"LOW-1", "LOW-2"}, data["items"])
}

func TestAlertService_SetConfigResetsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	env := setup(t, n)
	env.seed(t, domain.Product{ID: "p1", Name: "A", SKU: "LOW-1", Stock: 1})

	ctx := as(domain.RoleAdmin, "admin-1")
	cfg, err := env.alerts.SetConfig(ctx, domain.AlertConfig{Dashboard: true})
	require.NoError(t, err)
	require.True(t, cfg.Dashboard)

	stored, err := env.alerts.Config(ctx)
	require.NoError(t, err)
	require.Equal(t, cfg, stored)

	first, _ := env.alerts.Check(ctx)
	require.True(t, first.Notified)
	_, err = env.alerts.SetConfig(ctx, domain.AlertConfig{Dashboard: true})
	require.NoError(t, err)
	again, _ := env.alerts.Check(ctx)
	require.True(t, again.Notified)

	require.Empty(t, env.audit.Logs(audit.Filter{Search: "Automated Stock Alert"}))
}
