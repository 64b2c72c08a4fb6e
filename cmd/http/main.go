package main

import (
	"context"
	"net/http"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/delivery/http/controllers"
	"orthanc-service/internal/app/delivery/http/middlewares"
	"orthanc-service/internal/app/delivery/http/routers"
	"orthanc-service/internal/app/drivers/database"
	"orthanc-service/internal/app/drivers/logger"
	"orthanc-service/internal/app/drivers/messaging"
	"orthanc-service/internal/app/drivers/storage"
	"orthanc-service/internal/app/services/core/archives"
	"orthanc-service/internal/app/services/core/jobs"
	"orthanc-service/internal/app/services/core/queries"
	"orthanc-service/internal/app/services/core/resources"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/app/services/orthanc/transport"
	"orthanc-service/internal/app/services/shared/audit"
	"orthanc-service/internal/app/services/shared/authorizer"
	"orthanc-service/internal/app/services/shared/jobqueue"
	"orthanc-service/internal/app/services/shared/jobtracker"
	"orthanc-service/internal/app/services/shared/jwtmanager"
	"orthanc-service/internal/app/services/shared/locker"
	"orthanc-service/internal/app/services/shared/ratelimiter"
	"orthanc-service/internal/app/services/shared/redis"
	minioStorage "orthanc-service/internal/app/services/shared/storage"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig, log)
	redisClient := database.NewRedisClient(driverConfig, log)
	minioClient := storage.NewMinio(driverConfig, internalConfig, log)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig, log)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	err = bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatal("Error bootstrapping the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		log.Info("Server started", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Error while closing drivers", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)
	jobTracker := jobtracker.NewJobTracker(
		redisRepository,
		time.Duration(internalConfig.Jobs.TrackedJobTTLInHours)*time.Hour,
		log,
	)
	jobEventPublisher, err := jobqueue.NewService(bootstrap.RabbitMQ, internalConfig.RabbitMQ.JobEventsQueue, log)
	if err != nil {
		return err
	}
	auditRepository := audit.NewAuditMongoRepository(
		bootstrap.MongoDB,
		internalConfig.MongoDB.AuditDBName,
		internalConfig.MongoDB.AuditCollectionName,
		log,
	)
	modalityLimiter := ratelimiter.NewModalityLimiter(redisRepository, log, internalConfig)
	archiveStorage := minioStorage.NewMinioStorage(bootstrap.Minio)
	jwtManager, err := jwtmanager.NewJWTManager(internalConfig, log)
	if err != nil {
		return err
	}
	rbacAuthorizer, err := authorizer.NewCasbinAuthorizer(log, internalConfig)
	if err != nil {
		return err
	}

	// Orthanc
	requester := transport.NewHTTPTransport(transport.Config{
		BaseURL:  internalConfig.Orthanc.BaseUrl,
		Username: internalConfig.Orthanc.Username,
		Password: internalConfig.Orthanc.Password,
		Timeout:  time.Duration(internalConfig.Orthanc.TimeoutInSeconds) * time.Second,
	}, log)
	orthancClient := orthanc.NewClient(
		requester,
		orthanc.WithJobPollInterval(time.Duration(internalConfig.Jobs.PollIntervalInMilliseconds)*time.Millisecond),
		orthanc.WithJobWaitTimeout(time.Duration(internalConfig.Jobs.WaitTimeoutInSeconds)*time.Second),
	)

	// Usecases
	resourceUsecase := resources.NewResourceUsecase(orthancClient, jobTracker, lockerService, auditRepository, internalConfig, log)
	jobUsecase := jobs.NewJobUsecase(orthancClient, jobTracker, jobEventPublisher, lockerService, auditRepository, internalConfig, log)
	queryUsecase := queries.NewQueryUsecase(orthancClient, jobTracker, modalityLimiter, auditRepository, log)
	archiveUsecase := archives.NewArchiveUsecase(orthancClient, archiveStorage, auditRepository, internalConfig, log)

	// Background workers
	jobWatcher := jobs.NewWorker(log, internalConfig, lockerService, jobUsecase)
	stopJobWatcher := jobWatcher.Start(context.Background())
	retentionWorker := archives.NewRetentionWorker(log, internalConfig, lockerService, archiveStorage)
	stopRetentionWorker := retentionWorker.Start(context.Background())
	bootstrap.WorkerStop = func() {
		stopJobWatcher()
		stopRetentionWorker()
	}

	// Controllers
	resourceController := controllers.NewResourceController(log, resourceUsecase)
	jobController := controllers.NewJobController(log, jobUsecase, internalConfig)
	queryController := controllers.NewQueryController(log, queryUsecase)
	archiveController := controllers.NewArchiveController(log, archiveUsecase, internalConfig)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(log, jwtManager, rbacAuthorizer, internalConfig)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		middlewares,
		resourceController,
		jobController,
		queryController,
		archiveController,
	)
	return nil
}
