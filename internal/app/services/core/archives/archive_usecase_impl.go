package archives

import (
	"context"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/app/services/shared/audit"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/responses"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	archiveUsecaseInstance contracts.ArchiveUsecase
	onceArchiveUsecase     sync.Once
)

type archiveUsecase struct {
	Client          *orthanc.Client
	Storage         contracts.Storage
	AuditRepository contracts.AuditRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

func NewArchiveUsecase(
	client *orthanc.Client,
	storage contracts.Storage,
	auditRepository contracts.AuditRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ArchiveUsecase {
	onceArchiveUsecase.Do(func() {
		archiveUsecaseInstance = &archiveUsecase{
			Client:          client,
			Storage:         storage,
			AuditRepository: auditRepository,
			InternalConfig:  internalConfig,
			Log:             logger,
		}
	})
	return archiveUsecaseInstance
}

// ExportArchive downloads the zip archive of a container resource, stores it
// in the archive bucket and returns a time limited download URL.
func (uc *archiveUsecase) ExportArchive(ctx context.Context, level, resourceID string) (*responses.Archive, error) {
	requestID := utils.GetRequestID(ctx)
	parsedLevel, err := orthanc.ParseLevel(level)
	if err != nil {
		return nil, exceptions.ErrUnsupportedLevel(err, level)
	}
	container, err := uc.Client.Container(parsedLevel, resourceID, false)
	if err != nil {
		return nil, exceptions.ErrUnsupportedLevel(err, level)
	}

	bucketName := uc.InternalConfig.Archive.BucketName
	objectName := utils.GenerateArchiveObjectName(parsedLevel.String(), resourceID)
	expiry := time.Duration(uc.InternalConfig.Archive.PreSignedUrlExpiryTimeInMinutes) * time.Minute
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	archive := &responses.Archive{
		Level:      parsedLevel.String(),
		ResourceID: resourceID,
		BucketName: bucketName,
		ObjectName: objectName,
	}
	err = utils.LogOperation(uc.Log, "archiveUsecase.ExportArchive", requestID, func() error {
		content, err := container.GetZip(ctx)
		if err != nil {
			return err
		}
		archive.Size = len(content)

		_, err = uc.Storage.UploadObject(ctx, content, bucketName, objectName, constvars.MIMEApplicationZIP)
		if err != nil {
			return err
		}

		archive.URL, err = uc.Storage.GetObjectUrlWithExpiryTime(ctx, bucketName, objectName, expiry)
		if err != nil {
			return err
		}
		archive.ExpiresAt = time.Now().UTC().Add(expiry)
		return nil
	})

	outcome := constvars.AuditOutcomeSucceeded
	if err != nil {
		outcome = constvars.AuditOutcomeFailed
	}
	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:     constvars.AuditActionArchive,
		Level:      parsedLevel.String(),
		ResourceID: resourceID,
		Outcome:    outcome,
		Details: map[string]any{
			"bucket_name": bucketName,
			"object_name": objectName,
			"size":        archive.Size,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("archiveUsecase.ExportArchive succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, bucketName),
		zap.String(constvars.LoggingObjectNameKey, objectName),
		zap.Int(constvars.LoggingResponseLenKey, archive.Size),
	)
	return archive, nil
}
