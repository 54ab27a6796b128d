package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgwall/internal/filestore"
	"github.com/xxxsen/imgwall/internal/model"
	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/pkg/timeutil"
	"github.com/xxxsen/imgwall/internal/repo"
)

// ImageService owns the image lifecycle: the blob is written before the
// record is inserted, and on delete the blob is removed before the
// record. A crash mid-delete leaves a dangling record, never an
// unowned blob.
type ImageService struct {
	images *repo.ImageRepo
	store  filestore.Store
}

func NewImageService(images *repo.ImageRepo, store filestore.Store) *ImageService {
	return &ImageService{images: images, store: store}
}

type UploadInput struct {
	Filename  string
	Statement string
	Size      int64
	Content   filestore.ReadSeekCloser
	BaseURL   string
}

func (s *ImageService) Upload(ctx context.Context, in UploadInput) (*model.Image, error) {
	key := buildFileKey(in.Filename)
	if err := s.store.Save(ctx, key, in.Content, in.Size); err != nil {
		return nil, fmt.Errorf("save blob %s: %w", key, err)
	}
	img := &model.Image{
		ID:        newID(),
		FileKey:   key,
		URL:       s.store.URL(key, in.BaseURL),
		Statement: in.Statement,
		Ctime:     timeutil.NowUnix(),
	}
	if err := s.images.Create(ctx, img); err != nil {
		// The blob is already stored at this point. It stays behind as
		// an orphan until the offline sweep picks it up.
		logutil.GetLogger(ctx).Error("image record insert failed, blob orphaned",
			zap.String("file_key", key), zap.Error(err))
		return nil, err
	}
	return img, nil
}

func (s *ImageService) List(ctx context.Context) ([]model.Image, error) {
	return s.images.ListAll(ctx)
}

// Delete runs the four-step removal protocol: lookup, blob existence
// check, blob delete, record delete. It stops at the first failure and
// leaves the record intact whenever the blob state is in doubt.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return err
	}
	exists, err := s.store.Exists(ctx, img.FileKey)
	if err != nil {
		return fmt.Errorf("%w: stat blob %s: %v", appErr.ErrDelete, img.FileKey, err)
	}
	if !exists {
		// Detected inconsistency: the record points at nothing. Report
		// it, do not repair it here.
		return fmt.Errorf("%w: %s", appErr.ErrBlobMissing, img.FileKey)
	}
	if err := s.store.Delete(ctx, img.FileKey); err != nil {
		return fmt.Errorf("%w: remove blob %s: %v", appErr.ErrDelete, img.FileKey, err)
	}
	if err := s.images.DeleteByID(ctx, id); err != nil {
		// A concurrent delete may have removed the record already.
		if appErr.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// buildFileKey makes a collision-resistant flat key: wall-clock alone
// is not unique enough under concurrent uploads, so a random suffix is
// appended. The original extension is preserved.
func buildFileKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strconv.FormatInt(timeutil.NowUnixNano(), 10) + "_" + randomHex(4) + ext
}

// FileKeyTime recovers the creation time embedded in a file key. The
// orphan sweep uses it to skip blobs from uploads still in flight.
func FileKeyTime(key string) (time.Time, bool) {
	head, _, ok := strings.Cut(key, "_")
	if !ok {
		return time.Time{}, false
	}
	nanos, err := strconv.ParseInt(head, 10, 64)
	if err != nil || nanos <= 0 {
		return time.Time{}, false
	}
	return time.Unix(0, nanos), true
}
