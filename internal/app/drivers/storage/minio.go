package storage

import (
	"context"
	"fmt"
	"orthanc-service/internal/app/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// NewMinio connects to object storage and makes sure the archive bucket exists.
func NewMinio(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig, logger *zap.Logger) *minio.Client {
	endPoint := fmt.Sprintf("%s:%s", driverConfig.Minio.Host, driverConfig.Minio.Port)
	minioClient, err := minio.New(endPoint, &minio.Options{
		Creds:  credentials.NewStaticV4(driverConfig.Minio.Username, driverConfig.Minio.Password, ""),
		Secure: driverConfig.Minio.UseSSL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize Minio Client", zap.Error(err))
	}

	ctx := context.Background()
	bucketName := internalConfig.Archive.BucketName
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		logger.Fatal("Failed to check archive bucket", zap.String("bucket_name", bucketName), zap.Error(err))
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			logger.Fatal("Failed to create archive bucket", zap.String("bucket_name", bucketName), zap.Error(err))
		}
	}

	logger.Info("Successfully connected to minio")
	return minioClient
}
