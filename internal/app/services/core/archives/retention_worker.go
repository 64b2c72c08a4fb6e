package archives

import (
	"context"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const retentionLockTTL = 5 * time.Minute

// RetentionWorker removes exported archives once they are older than the
// configured retention. Only one replica sweeps per schedule tick.
type RetentionWorker struct {
	log     *zap.Logger
	cfg     *config.InternalConfig
	locker  contracts.LockerService
	storage contracts.Storage
	cron    *cron.Cron
	runCtx  context.Context
	cancel  context.CancelFunc
	now     func() time.Time
}

func NewRetentionWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, storage contracts.Storage) *RetentionWorker {
	return &RetentionWorker{
		log:     log,
		cfg:     cfg,
		locker:  lockerSvc,
		storage: storage,
		now:     time.Now,
	}
}

// Start schedules the sweep and returns a stop function that waits for a
// running sweep to finish. Retention of zero hours disables the worker.
func (w *RetentionWorker) Start(ctx context.Context) (stop func()) {
	if w.cfg.Archive.RetentionInHours <= 0 {
		w.log.Info("archives.RetentionWorker disabled")
		return func() {}
	}

	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	spec := w.cfg.Archive.RetentionCronSpec
	_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("archives.RetentionWorker invalid cron spec; falling back to @hourly",
			zap.String("cron_spec", spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc("@hourly", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c

	w.log.Info("archives.RetentionWorker started", zap.Int("retention_in_hours", w.cfg.Archive.RetentionInHours))

	return func() {
		w.cancel()
		<-w.cron.Stop().Done()
	}
}

func (w *RetentionWorker) runOnce(ctx context.Context) {
	acquired, lockVal, err := w.locker.TryLock(ctx, constvars.RedisKeyArchiveRetention, retentionLockTTL)
	if err != nil {
		w.log.Warn("archives.RetentionWorker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("archives.RetentionWorker lock not acquired; another instance is sweeping")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.RedisKeyArchiveRetention, lockVal); err != nil {
			w.log.Error("archives.RetentionWorker unlock failed", zap.Error(err))
		}
	}()

	bucketName := w.cfg.Archive.BucketName
	cutoff := w.now().Add(-time.Duration(w.cfg.Archive.RetentionInHours) * time.Hour)
	objectNames, err := w.storage.ListObjectsOlderThan(ctx, bucketName, cutoff)
	if err != nil {
		w.log.Error("archives.RetentionWorker error listing archives",
			zap.String(constvars.LoggingBucketNameKey, bucketName),
			zap.Error(err),
		)
		return
	}

	removed := 0
	for _, objectName := range objectNames {
		if ctx.Err() != nil {
			break
		}
		if err := w.storage.RemoveObject(ctx, bucketName, objectName); err != nil {
			w.log.Warn("archives.RetentionWorker error removing archive",
				zap.String(constvars.LoggingObjectNameKey, objectName),
				zap.Error(err),
			)
			continue
		}
		removed++
	}

	w.log.Info("archives.RetentionWorker sweep finished",
		zap.String(constvars.LoggingBucketNameKey, bucketName),
		zap.Time("cutoff", cutoff),
		zap.Int("expired_count", len(objectNames)),
		zap.Int("removed_count", removed),
	)
}
