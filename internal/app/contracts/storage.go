package contracts

import (
	"context"
	"time"
)

type Storage interface {
	UploadObject(ctx context.Context, content []byte, bucketName, objectName, contentType string) (string, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
	ListObjectsOlderThan(ctx context.Context, bucketName string, cutoff time.Time) ([]string, error)
	RemoveObject(ctx context.Context, bucketName, objectName string) error
}
