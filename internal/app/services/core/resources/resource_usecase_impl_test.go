package resources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/app/services/orthanc/transport"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockJobTracker struct {
	mock.Mock
}

func (m *MockJobTracker) Track(ctx context.Context, job *models.TrackedJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobTracker) Get(ctx context.Context, jobID string) (*models.TrackedJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrackedJob), args.Error(1)
}

func (m *MockJobTracker) Save(ctx context.Context, job *models.TrackedJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobTracker) Untrack(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockJobTracker) ListJobIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

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

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) InsertEvent(ctx context.Context, event *models.AuditEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

func (m *MockAuditRepository) FindByResource(ctx context.Context, level, resourceID string, limit int64) ([]models.AuditEvent, error) {
	args := m.Called(ctx, level, resourceID, limit)
	return args.Get(0).([]models.AuditEvent), args.Error(1)
}

type resourceUsecaseFixture struct {
	usecase *resourceUsecase
	tracker *MockJobTracker
	locker  *MockLockerService
	audit   *MockAuditRepository
}

func newResourceUsecaseFixture(t *testing.T, handler http.HandlerFunc) *resourceUsecaseFixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fixture := &resourceUsecaseFixture{
		tracker: new(MockJobTracker),
		locker:  new(MockLockerService),
		audit:   new(MockAuditRepository),
	}
	fixture.usecase = &resourceUsecase{
		Client:          orthanc.NewClient(transport.NewHTTPTransport(transport.Config{BaseURL: server.URL}, zap.NewNop())),
		JobTracker:      fixture.tracker,
		Locker:          fixture.locker,
		AuditRepository: fixture.audit,
		InternalConfig:  &config.InternalConfig{Jobs: config.AppJobs{ResourceLockTTLInSeconds: 120}},
		Log:             zap.NewNop(),
	}
	return fixture
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func failOnRequest(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}
}

func TestResourceUsecase_ListResources(t *testing.T) {
	t.Run("Collection Name Is Accepted", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/studies", r.URL.Path)
			writeJSON(w, `["s1","s2"]`)
		})

		ids, err := fixture.usecase.ListResources(context.Background(), "studies")

		require.NoError(t, err)
		assert.Equal(t, []string{"s1", "s2"}, ids)
	})

	t.Run("Unknown Level", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, failOnRequest(t))

		_, err := fixture.usecase.ListResources(context.Background(), "worklists")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestResourceUsecase_FindResources(t *testing.T) {
	fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tools/find", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(body, &sent))
		assert.Equal(t, "Series", sent["Level"])
		assert.Equal(t, false, sent["Expand"])
		assert.Equal(t, map[string]any{"Modality": "CT"}, sent["Query"])
		writeJSON(w, `["se1"]`)
	})

	found, err := fixture.usecase.FindResources(context.Background(), &requests.FindResources{
		Level: "series",
		Query: map[string]string{"Modality": "CT"},
	})

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "se1", found[0].ID)
	assert.Equal(t, "Series", found[0].Level)
}

func TestResourceUsecase_GetResource(t *testing.T) {
	fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/studies/study-1", r.URL.Path)
		writeJSON(w, `{"ID":"study-1","IsStable":true,"LastUpdate":"20240301T101530","Labels":["urgent"],"MainDicomTags":{"StudyDescription":"CHEST"}}`)
	})

	resource, err := fixture.usecase.GetResource(context.Background(), "studies", "study-1")

	require.NoError(t, err)
	assert.Equal(t, "Study", resource.Level)
	assert.Equal(t, []string{"urgent"}, resource.Labels)
	require.NotNil(t, resource.IsStable)
	assert.True(t, *resource.IsStable)
	require.NotNil(t, resource.LastUpdate)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC), *resource.LastUpdate)
}

func TestResourceUsecase_ListChildren(t *testing.T) {
	ctx := context.Background()

	t.Run("Patient Children Are Studies", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, `{"ID":"p1","Studies":["s1","s2"]}`)
		})

		children, err := fixture.usecase.ListChildren(ctx, "patients", "p1")

		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, "Study", children[1].Level)
	})

	t.Run("Instances Have No Children", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, failOnRequest(t))

		_, err := fixture.usecase.ListChildren(ctx, "instances", "i1")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestResourceUsecase_Labels(t *testing.T) {
	ctx := context.Background()
	fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/se1/labels/reviewed", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	fixture.audit.On("InsertEvent", ctx, mock.MatchedBy(func(event *models.AuditEvent) bool {
		return event.Action == constvars.AuditActionLabel && event.Outcome == constvars.AuditOutcomeSucceeded && event.Details["label"] == "reviewed"
	})).Return("audit-1", nil)

	err := fixture.usecase.AddLabel(ctx, "series", "se1", "reviewed")

	require.NoError(t, err)
	fixture.audit.AssertExpectations(t)
}

func TestResourceUsecase_DeleteResource(t *testing.T) {
	ctx := context.Background()
	lockKey := "orthanc:lock:Study:study-1"

	t.Run("Deleted And Audited", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			writeJSON(w, `{}`)
		})
		fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(true, "v", nil)
		fixture.locker.On("Unlock", ctx, lockKey, "v").Return(nil)
		fixture.audit.On("InsertEvent", ctx, mock.MatchedBy(func(event *models.AuditEvent) bool {
			return event.Action == constvars.AuditActionDelete && event.Outcome == constvars.AuditOutcomeSucceeded
		})).Return("audit-1", nil)

		err := fixture.usecase.DeleteResource(ctx, "studies", "study-1")

		require.NoError(t, err)
		fixture.locker.AssertExpectations(t)
		fixture.audit.AssertExpectations(t)
	})

	t.Run("Busy Resource Is Kept", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, failOnRequest(t))
		fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(false, "", nil)

		err := fixture.usecase.DeleteResource(ctx, "studies", "study-1")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})
}

func TestResourceUsecase_AnonymizeResource(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_SUBJECT_KEY, "radiology-bot")
	lockKey := "orthanc:lock:Study:study-1"

	t.Run("Submitted Job Is Tracked With Its Lock", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/studies/study-1/anonymize", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			var sent map[string]any
			require.NoError(t, json.Unmarshal(body, &sent))
			assert.Equal(t, true, sent["Asynchronous"])
			assert.Equal(t, true, sent["KeepSource"])
			writeJSON(w, `{"ID":"job-7","Path":"/jobs/job-7"}`)
		})
		fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(true, "lock-value", nil)
		fixture.tracker.On("Track", ctx, mock.MatchedBy(func(job *models.TrackedJob) bool {
			return job.JobID == "job-7" && job.LockKey == lockKey && job.LockValue == "lock-value" &&
				job.Operation == constvars.AuditActionAnonymize && job.Subject == "radiology-bot"
		})).Return(nil)
		fixture.audit.On("InsertEvent", ctx, mock.MatchedBy(func(event *models.AuditEvent) bool {
			return event.Outcome == constvars.AuditOutcomeSubmitted && event.JobID == "job-7" && event.Subject == "radiology-bot"
		})).Return("audit-1", nil)

		job, err := fixture.usecase.AnonymizeResource(ctx, "studies", "study-1", &requests.AnonymizeResource{})

		require.NoError(t, err)
		assert.Equal(t, "job-7", job.ID)
		assert.True(t, job.Tracked)
		assert.Equal(t, constvars.OrthancJobStatePending, job.State)
		fixture.locker.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
		fixture.tracker.AssertExpectations(t)
		fixture.audit.AssertExpectations(t)
	})

	t.Run("Busy Resource Is Rejected", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, failOnRequest(t))
		fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(false, "", nil)

		_, err := fixture.usecase.AnonymizeResource(ctx, "studies", "study-1", nil)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
	})

	t.Run("Submission Failure Releases The Lock", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(true, "lock-value", nil)
		fixture.locker.On("Unlock", ctx, lockKey, "lock-value").Return(nil)
		fixture.audit.On("InsertEvent", ctx, mock.MatchedBy(func(event *models.AuditEvent) bool {
			return event.Outcome == constvars.AuditOutcomeFailed
		})).Return("audit-2", nil)

		_, err := fixture.usecase.AnonymizeResource(ctx, "studies", "study-1", nil)

		var transportErr *exceptions.TransportError
		require.True(t, errors.As(err, &transportErr))
		fixture.locker.AssertExpectations(t)
		fixture.tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})

	t.Run("Tracking Failure Releases The Lock And Logs Unlock Errors", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, `{"ID":"job-8","Path":"/jobs/job-8"}`)
		})
		core, logs := observer.New(zap.WarnLevel)
		fixture.usecase.Log = zap.New(core)
		fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(true, "lock-value", nil)
		fixture.locker.On("Unlock", ctx, lockKey, "lock-value").Return(errors.New("redis down"))
		fixture.tracker.On("Track", ctx, mock.AnythingOfType("*models.TrackedJob")).Return(errors.New("redis down"))
		fixture.audit.On("InsertEvent", ctx, mock.AnythingOfType("*models.AuditEvent")).Return("audit-3", nil)

		job, err := fixture.usecase.AnonymizeResource(ctx, "studies", "study-1", nil)

		require.NoError(t, err)
		assert.Equal(t, "job-8", job.ID)
		assert.False(t, job.Tracked)
		fixture.locker.AssertExpectations(t)
		released := logs.FilterMessage("resourceUsecase.submitMutation error releasing lock").All()
		require.Len(t, released, 1)
		assert.Equal(t, lockKey, released[0].ContextMap()[constvars.LoggingRedisKey])
	})

	t.Run("Instances Are Not Anonymized As Jobs", func(t *testing.T) {
		fixture := newResourceUsecaseFixture(t, failOnRequest(t))

		_, err := fixture.usecase.AnonymizeResource(ctx, "instances", "i1", nil)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})
}

func TestResourceUsecase_ModifyResource(t *testing.T) {
	ctx := context.Background()
	lockKey := "orthanc:lock:Patient:p1"
	keep := false
	fixture := newResourceUsecaseFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patients/p1/modify", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(body, &sent))
		assert.Equal(t, false, sent["KeepSource"])
		assert.Equal(t, map[string]any{"PatientName": "DOE^JOHN"}, sent["Replace"])
		writeJSON(w, `{"ID":"job-8","Path":"/jobs/job-8"}`)
	})
	fixture.locker.On("TryLock", ctx, lockKey, 2*time.Minute).Return(true, "v", nil)
	fixture.tracker.On("Track", ctx, mock.AnythingOfType("*models.TrackedJob")).Return(nil)
	fixture.audit.On("InsertEvent", ctx, mock.AnythingOfType("*models.AuditEvent")).Return("audit-1", nil)

	job, err := fixture.usecase.ModifyResource(ctx, "patients", "p1", &requests.ModifyResource{
		Replace:    map[string]string{"PatientName": "DOE^JOHN"},
		KeepSource: &keep,
	})

	require.NoError(t, err)
	assert.Equal(t, "job-8", job.ID)
	assert.Equal(t, constvars.AuditActionModify, job.Operation)
}

func TestResourceUsecase_GetAuditTrail(t *testing.T) {
	ctx := context.Background()
	fixture := newResourceUsecaseFixture(t, failOnRequest(t))
	createdAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	event := models.AuditEvent{ID: "a1", Action: constvars.AuditActionAnonymize, JobID: "job-7", Outcome: constvars.AuditOutcomeSucceeded}
	event.CreatedAt = createdAt
	fixture.audit.On("FindByResource", ctx, "Study", "study-1", int64(auditTrailLimit)).Return([]models.AuditEvent{event}, nil)

	trail, err := fixture.usecase.GetAuditTrail(ctx, "studies", "study-1")

	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "job-7", trail[0].JobID)
	assert.Equal(t, createdAt, trail[0].CreatedAt)
}
