package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/repo"
	"github.com/xxxsen/imgwall/internal/service"
)

func setupCommentService(t *testing.T) *service.CommentService {
	t.Helper()
	db, err := repo.Open(filepath.Join(t.TempDir(), "imgwall_test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return service.NewCommentService(repo.NewCommentRepo(db))
}

func TestCommentRoundTrip(t *testing.T) {
	svc := setupCommentService(t)

	created, err := svc.Create(context.Background(), "alice", "hi")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "alice", items[0].User)
	require.Equal(t, "hi", items[0].Comment)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	items, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCommentDeleteNonexistent(t *testing.T) {
	svc := setupCommentService(t)
	err := svc.Delete(context.Background(), "no-such-id")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestCommentEmptyFieldsTolerated(t *testing.T) {
	svc := setupCommentService(t)
	created, err := svc.Create(context.Background(), "", "")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}
