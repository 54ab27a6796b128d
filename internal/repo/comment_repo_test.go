package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/imgwall/internal/model"
	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/pkg/timeutil"
	"github.com/xxxsen/imgwall/internal/repo"
)

func TestCommentRepoCRUD(t *testing.T) {
	db := openTestDB(t)
	comments := repo.NewCommentRepo(db)

	comment := &model.Comment{
		ID:      "c-1",
		User:    "alice",
		Comment: "hi",
		Ctime:   timeutil.NowUnix(),
	}
	require.NoError(t, comments.Create(context.Background(), comment))

	fetched, err := comments.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	require.Equal(t, "alice", fetched.User)
	require.Equal(t, "hi", fetched.Comment)

	items, err := comments.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, comments.DeleteByID(context.Background(), "c-1"))
	_, err = comments.GetByID(context.Background(), "c-1")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	err = comments.DeleteByID(context.Background(), "c-1")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
