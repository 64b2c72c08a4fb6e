package jwtmanager

import (
	"context"
	"errors"
	"fmt"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// JWTManager signs and verifies the bearer tokens accepted by the gateway.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (contracts.JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl := time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// CreateToken signs an HS256 token for subject valid for the configured TTL.
func (j *JWTManager) CreateToken(ctx context.Context, subject string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubjectKey, subject),
	)

	if strings.TrimSpace(subject) == "" {
		return "", exceptions.ErrTokenGenerate(errors.New("subject is required"))
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	return signed, nil
}

func (j *JWTManager) VerifyToken(ctx context.Context, token string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Debug("JWTManager.VerifyToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if strings.TrimSpace(token) == "" {
		return "", exceptions.ErrTokenMissing(errors.New(constvars.ErrDevAuthTokenMissing))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: %v", constvars.ErrDevAuthSigningMethod, t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New(constvars.ErrDevAuthTokenInvalidOrExpired)
		}
		j.log.Warn("JWTManager.VerifyToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrTokenInvalidOrExpired(err)
	}
	if claims.Subject == "" {
		return "", exceptions.ErrTokenInvalidOrExpired(errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
