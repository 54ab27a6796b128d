package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/imgwall/internal/config"
	"github.com/xxxsen/imgwall/internal/filestore"
	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/repo"
	"github.com/xxxsen/imgwall/internal/service"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) filestore.ReadSeekCloser {
	return memFile{Reader: bytes.NewReader(data)}
}

func setupImageService(t *testing.T) (*service.ImageService, *repo.ImageRepo, filestore.Store, *sqlx.DB) {
	t.Helper()
	db, err := repo.Open(filepath.Join(t.TempDir(), "imgwall_test.db"))
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)

	images := repo.NewImageRepo(db)
	return service.NewImageService(images, store), images, store, db
}

func upload(t *testing.T, svc *service.ImageService, filename, statement string, content []byte) string {
	t.Helper()
	img, err := svc.Upload(context.Background(), service.UploadInput{
		Filename:  filename,
		Statement: statement,
		Size:      int64(len(content)),
		Content:   newMemFile(content),
		BaseURL:   "http://localhost:3000",
	})
	require.NoError(t, err)
	return img.ID
}

func TestUploadThenList(t *testing.T) {
	svc, _, store, _ := setupImageService(t)
	content := []byte("png-ish bytes")

	id := upload(t, svc, "cat.PNG", "a cat", content)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, id, items[0].ID)
	require.Equal(t, "a cat", items[0].Statement)
	require.Equal(t, ".png", filepath.Ext(items[0].FileKey))

	file, err := store.Open(context.Background(), items[0].FileKey)
	require.NoError(t, err)
	got, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	require.Equal(t, content, got)
}

func TestUploadWithoutStatement(t *testing.T) {
	svc, _, _, _ := setupImageService(t)

	upload(t, svc, "cat.png", "", []byte("bytes"))

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Empty(t, items[0].Statement)
}

func TestDeleteThenList(t *testing.T) {
	svc, _, store, _ := setupImageService(t)

	id := upload(t, svc, "cat.png", "a cat", []byte("bytes"))
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	key := items[0].FileKey

	require.NoError(t, svc.Delete(context.Background(), id))

	items, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)

	exists, err := store.Exists(context.Background(), key)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestDeleteNonexistentID(t *testing.T) {
	svc, _, store, _ := setupImageService(t)
	upload(t, svc, "cat.png", "a cat", []byte("bytes"))

	err := svc.Delete(context.Background(), "no-such-id")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestDeleteDetectsMissingBlob(t *testing.T) {
	svc, images, store, _ := setupImageService(t)

	id := upload(t, svc, "cat.png", "a cat", []byte("bytes"))
	items, err := svc.List(context.Background())
	require.NoError(t, err)

	// Remove the blob out-of-band: the record now dangles.
	require.NoError(t, store.Delete(context.Background(), items[0].FileKey))

	err = svc.Delete(context.Background(), id)
	require.True(t, appErr.IsBlobMissing(err))

	// The record is reported, not repaired.
	_, err = images.GetByID(context.Background(), id)
	require.NoError(t, err)
}

func TestConcurrentUploadsGetDistinctKeys(t *testing.T) {
	svc, _, store, _ := setupImageService(t)
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := []byte(fmt.Sprintf("content-%d", i))
			_, err := svc.Upload(context.Background(), service.UploadInput{
				Filename:  fmt.Sprintf("img-%d.png", i),
				Statement: fmt.Sprintf("statement-%d", i),
				Size:      int64(len(content)),
				Content:   newMemFile(content),
				BaseURL:   "http://localhost:3000",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, n)

	seen := make(map[string]struct{}, n)
	for _, item := range items {
		seen[item.FileKey] = struct{}{}
	}
	require.Len(t, seen, n)

	keys, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, n)
}

func TestFileKeyTime(t *testing.T) {
	_, ok := service.FileKeyTime("garbage.png")
	require.False(t, ok)

	created, ok := service.FileKeyTime("1700000000000000000_abcd.png")
	require.True(t, ok)
	require.Equal(t, int64(1700000000000000000), created.UnixNano())
}
