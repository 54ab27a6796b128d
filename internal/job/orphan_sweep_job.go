package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgwall/internal/filestore"
	"github.com/xxxsen/imgwall/internal/repo"
	"github.com/xxxsen/imgwall/internal/service"
)

// OrphanSweepJob is the offline reconciliation pass between the blob
// area and the image registry. It removes blobs no record references
// and reports records whose blob has gone missing. It never runs on
// the request path.
type OrphanSweepJob struct {
	images *repo.ImageRepo
	store  filestore.Store
	minAge time.Duration
}

func NewOrphanSweepJob(images *repo.ImageRepo, store filestore.Store, minAge time.Duration) *OrphanSweepJob {
	return &OrphanSweepJob{images: images, store: store, minAge: minAge}
}

func (j *OrphanSweepJob) Name() string {
	return "orphan_sweep"
}

func (j *OrphanSweepJob) Run(ctx context.Context) error {
	if j.images == nil || j.store == nil {
		return nil
	}
	minAge := j.minAge
	if minAge <= 0 {
		minAge = 24 * time.Hour
	}
	keys, err := j.store.List(ctx)
	if err != nil {
		return err
	}
	records, err := j.images.ListAll(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(records))
	for _, record := range records {
		referenced[record.FileKey] = struct{}{}
	}
	stored := make(map[string]struct{}, len(keys))
	logger := logutil.GetLogger(ctx)

	removed := 0
	for _, key := range keys {
		stored[key] = struct{}{}
		if _, ok := referenced[key]; ok {
			continue
		}
		// Skip young blobs: an upload may have written the blob but not
		// yet inserted its record.
		created, ok := service.FileKeyTime(key)
		if !ok || time.Since(created) < minAge {
			continue
		}
		if err := j.store.Delete(ctx, key); err != nil {
			logger.Error("remove orphaned blob failed", zap.String("file_key", key), zap.Error(err))
			continue
		}
		removed++
		logger.Info("removed orphaned blob", zap.String("file_key", key))
	}

	// Dangling records are reported only. Repairing them is a manual
	// decision, not something the sweep guesses at.
	dangling := 0
	for _, record := range records {
		if _, ok := stored[record.FileKey]; !ok {
			dangling++
			logger.Warn("dangling image record",
				zap.String("id", record.ID),
				zap.String("file_key", record.FileKey),
			)
		}
	}
	logger.Info("sweep summary",
		zap.Int("blobs", len(keys)),
		zap.Int("records", len(records)),
		zap.Int("orphans_removed", removed),
		zap.Int("dangling_records", dangling),
	)
	return nil
}
