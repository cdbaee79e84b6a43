package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vedashop/internal/audit"
	"vedashop/internal/auth"
	"vedashop/internal/domain"
	"vedashop/internal/repository"
)

func seedMedia(t *testing.T, env *testEnv) {
	t.Helper()
	repo := repository.NewMemoryMedia(env.store)
	for _, m := range []domain.MediaItem{
		{ID: "media-1", Name: "Ashwagandha.jpg", Type: domain.MediaImage, SizeKB: 250, UploadedBy: "admin-1", Status: domain.MediaApproved,
			Metadata: domain.MediaMetadata{Title: "Ashwagandha Product", Alt: "Herbal root powder"}},
		{ID: "media-2", Name: "my-review.jpg", Type: domain.MediaImage, SizeKB: 120, UploadedBy: "user-1", Status: domain.MediaPending},
	} {
		require.NoError(t, repo.Create(t.Context(), &m))
	}
}

func TestMediaService_ListAndMine(t *testing.T) {
	env := setup(t, nil)
	seedMedia(t, env)

	list, err := env.media.List(as(domain.RoleEditor, "editor-1"), repository.MediaFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = env.media.List(as(domain.RoleEditor, "editor-1"), repository.MediaFilter{Status: domain.MediaPending})
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.media.List(as(domain.RoleEditor, "editor-1"), repository.MediaFilter{Status: "archived"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = env.media.List(as(domain.RoleUser, "user-1"), repository.MediaFilter{})
	var perr *auth.PermissionError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, auth.ManageMedia, perr.Permission)

	mine, err := env.media.Mine(as(domain.RoleUser, "user-1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "media-2", mine[0].ID)

	_, err = env.media.Mine(t.Context())
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMediaService_UpdateMetadataMerges(t *testing.T) {
	env := setup(t, nil)
	seedMedia(t, env)

	title := "  Ashwagandha Root  "
	m, err := env.media.UpdateMetadata(as(domain.RoleEditor, "editor-1"), "media-1", MediaMetadataPatch{
		Title: &title, Tags: []string{"root", " root ", ""},
	})
	require.NoError(t, err)
	require.Equal(t, "Ashwagandha Root", m.Metadata.Title)
	require.Equal(t, "Herbal root powder", m.Metadata.Alt)
	require.Equal(t, []string{"root"}, m.Metadata.Tags)

	_, err = env.media.UpdateMetadata(as(domain.RoleEditor, "editor-1"), "ghost", MediaMetadataPatch{Title: &title})
	require.ErrorIs(t, err, repository.ErrNotFound)

	logs := env.audit.Logs(audit.Filter{Search: "Media Metadata Updated"})
	require.Len(t, logs, 1)
	require.Equal(t, "editor-1", logs[0].UserID)
}

func TestMediaService_Moderation(t *testing.T) {
	env := setup(t, nil)
	seedMedia(t, env)
	editor := as(domain.RoleEditor, "editor-1")

	_, err := env.media.UpdateStatus(editor, "media-2", "archived")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Zero(t, env.audit.Len())

	m, err := env.media.UpdateStatus(editor, "media-2", domain.MediaApproved)
	require.NoError(t, err)
	require.Equal(t, domain.MediaApproved, m.Status)

	logs := env.audit.Logs(audit.Filter{})
	require.Len(t, logs, 1)
	require.Equal(t, "Media Status Updated: approved", logs[0].Message)
	data := requestData(t, logs[0])
	require.Equal(t, "pending", data["oldStatus"])

	_, err = env.media.UpdateStatus(as(domain.RoleViewer, "viewer-1"), "media-2", domain.MediaRejected)
	var perr *auth.PermissionError
	require.ErrorAs(t, err, &perr)
}

func TestMediaService_Delete(t *testing.T) {
	env := setup(t, nil)
	seedMedia(t, env)

	err := env.media.Delete(as(domain.RoleUser, "user-1"), "media-2")
	var perr *auth.PermissionError
	require.ErrorAs(t, err, &perr)

	require.NoError(t, env.media.Delete(as(domain.RoleAdmin, "manager-1"), "media-2"))
	require.ErrorIs(t, env.media.Delete(as(domain.RoleAdmin, "manager-1"), "media-2"), repository.ErrNotFound)

	mine, err := env.media.Mine(as(domain.RoleUser, "user-1"))
	require.NoError(t, err)
	require.Empty(t, mine)

	logs := env.audit.Logs(audit.Filter{Severity: audit.SeverityWarning})
	require.Len(t, logs, 2)
	require.Equal(t, "Media Deleted", logs[0].Message)
	require.Equal(t, "user-1", requestData(t, logs[0])["uploadedBy"])
	require.Equal(t, "Permission Denied", logs[1].Message)
}
