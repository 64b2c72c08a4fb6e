package utils

import (
	"fmt"
	"orthanc-service/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateArchiveObjectName builds the object key an exported archive is stored under.
func GenerateArchiveObjectName(level, resourceID string) string {
	timestamp := time.Now().UTC().Format("20060102_150405.000000000")
	return fmt.Sprintf("%s/%s_%s.zip", strings.ToLower(level), resourceID, timestamp)
}

func GenerateTrackedJobKey(jobID string) string {
	return constvars.RedisKeyTrackedJobPrefix + jobID
}

func GenerateResourceLockKey(level, resourceID string) string {
	return fmt.Sprintf("%s%s:%s", constvars.RedisKeyResourceLockPrefix, level, resourceID)
}
