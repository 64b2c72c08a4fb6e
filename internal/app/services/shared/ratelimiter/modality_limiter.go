package ratelimiter

import (
	"context"
	"fmt"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ModalityLimiter is a fixed window counter kept in Redis so every replica of
// the service shares the same quota towards a remote modality.
type ModalityLimiter struct {
	redis     contracts.RedisRepository
	log       *zap.Logger
	maxQuota  int
	windowSec int
	now       func() time.Time
}

func NewModalityLimiter(redis contracts.RedisRepository, log *zap.Logger, cfg *config.InternalConfig) contracts.ModalityLimiter {
	windowSec := cfg.Modality.WindowInSeconds
	if windowSec <= 0 {
		windowSec = 60
	}
	return &ModalityLimiter{
		redis:     redis,
		log:       log,
		maxQuota:  cfg.Modality.MaxRequestsPerWindow,
		windowSec: windowSec,
		now:       time.Now,
	}
}

// Allow counts one request against modality. A quota of zero disables the limit.
func (l *ModalityLimiter) Allow(ctx context.Context, modality string) error {
	if l.maxQuota <= 0 {
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(modality))
	now := l.now().UTC()
	windowID := now.Unix() / int64(l.windowSec)
	key := fmt.Sprintf("%s%s:%d", constvars.RedisKeyModalityLimiter, name, windowID)

	ttl := time.Duration(l.windowSec)*time.Second + time.Second
	count, err := l.redis.IncrementWithTTL(ctx, key, ttl)
	if err != nil {
		l.log.Error("ModalityLimiter.Allow increment failed",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return err
	}

	if count > l.maxQuota {
		nextWindowStart := (windowID + 1) * int64(l.windowSec)
		retryAfter := int(nextWindowStart-now.Unix()) + 1
		l.log.Warn("ModalityLimiter.Allow quota exceeded",
			zap.String(constvars.LoggingModalityKey, name),
			zap.Int("count", count),
			zap.Int("retry_after_seconds", retryAfter),
		)
		return exceptions.ErrModalityRateLimited(name, l.maxQuota, l.windowSec, retryAfter)
	}
	return nil
}
