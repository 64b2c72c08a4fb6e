package middlewares

import (
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log            *zap.Logger
	JWTManager     contracts.JWTManager
	Authorizer     contracts.Authorizer
	InternalConfig *config.InternalConfig
}

func NewMiddlewares(logger *zap.Logger, jwtManager contracts.JWTManager, authorizer contracts.Authorizer, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:            logger,
		JWTManager:     jwtManager,
		Authorizer:     authorizer,
		InternalConfig: internalConfig,
	}
}
