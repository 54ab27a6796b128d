package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/imgwall/internal/model"
	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/pkg/timeutil"
	"github.com/xxxsen/imgwall/internal/repo"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repo.Open(filepath.Join(t.TempDir(), "imgwall_test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestImageRepoCreateGetDelete(t *testing.T) {
	db := openTestDB(t)
	images := repo.NewImageRepo(db)

	img := &model.Image{
		ID:        "img-1",
		FileKey:   "170000_ab.png",
		URL:       "http://localhost/files/170000_ab.png",
		Statement: "sunset over the bay",
		Ctime:     timeutil.NowUnix(),
	}
	require.NoError(t, images.Create(context.Background(), img))

	fetched, err := images.GetByID(context.Background(), "img-1")
	require.NoError(t, err)
	require.Equal(t, "sunset over the bay", fetched.Statement)
	require.Equal(t, "170000_ab.png", fetched.FileKey)

	_, err = images.GetByID(context.Background(), "img-2")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, images.DeleteByID(context.Background(), "img-1"))
	_, err = images.GetByID(context.Background(), "img-1")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	err = images.DeleteByID(context.Background(), "img-1")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestImageRepoListAll(t *testing.T) {
	db := openTestDB(t)
	images := repo.NewImageRepo(db)

	items, err := images.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)

	for i, key := range []string{"1_aa.png", "2_bb.jpg", "3_cc.gif"} {
		require.NoError(t, images.Create(context.Background(), &model.Image{
			ID:      key,
			FileKey: key,
			Ctime:   int64(i),
		}))
	}
	items, err = images.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestImageRepoEmptyStatementTolerated(t *testing.T) {
	db := openTestDB(t)
	images := repo.NewImageRepo(db)

	require.NoError(t, images.Create(context.Background(), &model.Image{
		ID:      "img-1",
		FileKey: "1_aa.png",
		Ctime:   timeutil.NowUnix(),
	}))
	fetched, err := images.GetByID(context.Background(), "img-1")
	require.NoError(t, err)
	require.Empty(t, fetched.Statement)
}
