package jobs

import (
	"context"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Worker periodically refreshes tracked jobs so that resource locks are
// released and completion events are published even when nobody waits on them.
type Worker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	usecase  contracts.JobUsecase
	limiter  *rate.Limiter
	interval time.Duration
	stop     chan struct{}
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, usecase contracts.JobUsecase) *Worker {
	interval := time.Duration(cfg.Jobs.WatcherIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	perSecond := cfg.Jobs.WatcherRequestsPerSecond
	if perSecond <= 0 {
		perSecond = 5
	}
	return &Worker{
		log:      log,
		cfg:      cfg,
		locker:   lockerSvc,
		usecase:  usecase,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(w.interval)

	w.log.Info("jobs.Worker started", zap.Duration(constvars.LoggingDurationKey, w.interval))

	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case now := <-ticker.C:
				w.runOnce(ctx, now)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context, now time.Time) {
	w.log.Debug("jobs.Worker.runOnce tick", zap.Time("now", now))

	ttl := w.interval - time.Second
	if ttl < time.Second {
		ttl = time.Second
	}
	acquired, lockVal, err := w.locker.TryLock(ctx, constvars.RedisKeyJobWatcherLock, ttl)
	if err != nil {
		w.log.Info("jobs.Worker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("jobs.Worker lock not acquired; another instance is running")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.RedisKeyJobWatcherLock, lockVal); err != nil {
			w.log.Error("jobs.Worker unlock failed", zap.Error(err))
		}
	}()

	jobIDs, err := w.usecase.TrackedJobIDs(ctx)
	if err != nil {
		w.log.Error("jobs.Worker error listing tracked jobs", zap.Error(err))
		return
	}

	max := w.cfg.Jobs.WatcherMaxJobsPerTick
	if max > 0 && len(jobIDs) > max {
		jobIDs = jobIDs[:max]
	}
	w.log.Info("jobs.Worker refreshing tracked jobs", zap.Int(constvars.LoggingFetchedCountKey, len(jobIDs)))

	settled := 0
	for _, jobID := range jobIDs {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		done, err := w.usecase.RefreshTrackedJob(ctx, jobID)
		if err != nil {
			w.log.Warn("jobs.Worker error refreshing tracked job",
				zap.String(constvars.LoggingJobIDKey, jobID),
				zap.Error(err),
			)
			continue
		}
		if done {
			settled++
		}
	}

	if settled > 0 {
		w.log.Info("jobs.Worker settled jobs", zap.Int(constvars.LoggingJobCountKey, settled))
	}
}
