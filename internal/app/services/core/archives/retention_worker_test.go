package archives

import (
	"context"
	"errors"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockLockerService struct {
	mock.Mock
}

func (m *MockLockerService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockLockerService) Unlock(ctx context.Context, key, lockValue string) error {
	args := m.Called(ctx, key, lockValue)
	return args.Error(0)
}

func (m *MockLockerService) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	args := m.Called(ctx, key, lockValue, expiration)
	return args.Error(0)
}

func newTestRetentionWorker(retentionInHours int) (*RetentionWorker, *MockLockerService, *MockStorage) {
	locker := new(MockLockerService)
	storage := new(MockStorage)
	worker := NewRetentionWorker(zap.NewNop(), &config.InternalConfig{
		Archive: config.AppArchive{
			BucketName:        "orthanc-archives",
			RetentionInHours:  retentionInHours,
			RetentionCronSpec: "not a cron spec",
		},
	}, locker, storage)
	worker.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return worker, locker, storage
}

func TestRetentionWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	t.Run("Removes Expired Archives", func(t *testing.T) {
		worker, locker, storage := newTestRetentionWorker(24)
		locker.On("TryLock", ctx, constvars.RedisKeyArchiveRetention, retentionLockTTL).Return(true, "token", nil).Once()
		locker.On("Unlock", ctx, constvars.RedisKeyArchiveRetention, "token").Return(nil).Once()
		storage.On("ListObjectsOlderThan", ctx, "orthanc-archives", cutoff).
			Return([]string{"study/a.zip", "study/b.zip"}, nil).Once()
		storage.On("RemoveObject", ctx, "orthanc-archives", "study/a.zip").Return(errors.New("access denied")).Once()
		storage.On("RemoveObject", ctx, "orthanc-archives", "study/b.zip").Return(nil).Once()

		worker.runOnce(ctx)

		locker.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("Another Replica Is Sweeping", func(t *testing.T) {
		worker, locker, storage := newTestRetentionWorker(24)
		locker.On("TryLock", ctx, constvars.RedisKeyArchiveRetention, retentionLockTTL).Return(false, "", nil).Once()

		worker.runOnce(ctx)

		storage.AssertNotCalled(t, "ListObjectsOlderThan", mock.Anything, mock.Anything, mock.Anything)
		locker.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Listing Fails", func(t *testing.T) {
		worker, locker, storage := newTestRetentionWorker(24)
		locker.On("TryLock", ctx, constvars.RedisKeyArchiveRetention, retentionLockTTL).Return(true, "token", nil).Once()
		locker.On("Unlock", ctx, constvars.RedisKeyArchiveRetention, "token").Return(nil).Once()
		storage.On("ListObjectsOlderThan", ctx, "orthanc-archives", cutoff).Return(nil, errors.New("bucket missing")).Once()

		worker.runOnce(ctx)

		storage.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything)
		locker.AssertExpectations(t)
	})
}

func TestRetentionWorker_Start(t *testing.T) {
	t.Run("Disabled Without Retention", func(t *testing.T) {
		worker, _, _ := newTestRetentionWorker(0)

		stop := worker.Start(context.Background())
		stop()

		assert.Nil(t, worker.cron)
	})

	t.Run("Invalid Spec Falls Back To Hourly", func(t *testing.T) {
		worker, _, _ := newTestRetentionWorker(24)

		stop := worker.Start(context.Background())
		defer stop()

		assert.NotNil(t, worker.cron)
		assert.Len(t, worker.cron.Entries(), 1)
	})
}
