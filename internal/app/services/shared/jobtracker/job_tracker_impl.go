package jobtracker

import (
	"context"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	jobTrackerInstance contracts.JobTracker
	onceJobTracker     sync.Once
)

// jobTracker keeps one JSON document per job plus a set of every tracked job ID.
type jobTracker struct {
	redisRepo contracts.RedisRepository
	ttl       time.Duration
	Log       *zap.Logger
}

func NewJobTracker(repo contracts.RedisRepository, ttl time.Duration, logger *zap.Logger) contracts.JobTracker {
	onceJobTracker.Do(func() {
		jobTrackerInstance = &jobTracker{
			redisRepo: repo,
			ttl:       ttl,
			Log:       logger,
		}
	})
	return jobTrackerInstance
}

func (t *jobTracker) Track(ctx context.Context, job *models.TrackedJob) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Info("jobTracker.Track called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.JobID),
		zap.String(constvars.LoggingOperationKey, job.Operation),
	)

	err := t.redisRepo.Set(ctx, utils.GenerateTrackedJobKey(job.JobID), job, t.ttl)
	if err != nil {
		t.Log.Error("jobTracker.Track error storing job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	err = t.redisRepo.AddToSet(ctx, constvars.RedisKeyTrackedJobSet, job.JobID)
	if err != nil {
		t.Log.Error("jobTracker.Track error adding job to tracked set",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (t *jobTracker) Get(ctx context.Context, jobID string) (*models.TrackedJob, error) {
	raw, err := t.redisRepo.Get(ctx, utils.GenerateTrackedJobKey(jobID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var job models.TrackedJob
	err = json.Unmarshal([]byte(raw), &job)
	if err != nil {
		t.Log.Error("jobTracker.Get error unmarshaling tracked job",
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &job, nil
}

func (t *jobTracker) Save(ctx context.Context, job *models.TrackedJob) error {
	return t.redisRepo.Set(ctx, utils.GenerateTrackedJobKey(job.JobID), job, t.ttl)
}

// Untrack removes the job from the watched set. The document itself is kept
// until it expires so the final state can still be read.
func (t *jobTracker) Untrack(ctx context.Context, jobID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	t.Log.Info("jobTracker.Untrack called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, jobID),
	)
	return t.redisRepo.RemoveFromSet(ctx, constvars.RedisKeyTrackedJobSet, jobID)
}

func (t *jobTracker) ListJobIDs(ctx context.Context) ([]string, error) {
	return t.redisRepo.GetSetMembers(ctx, constvars.RedisKeyTrackedJobSet)
}
