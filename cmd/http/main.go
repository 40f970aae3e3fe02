package main

import (
	"context"
	"errors"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/delivery/http/controllers"
	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/app/delivery/http/routers"
	"mindhub-service/internal/app/drivers/database"
	"mindhub-service/internal/app/drivers/logger"
	"mindhub-service/internal/app/drivers/messaging"
	"mindhub-service/internal/app/drivers/monitoring"
	"mindhub-service/internal/app/drivers/storage"
	"mindhub-service/internal/app/services/backend"
	"mindhub-service/internal/app/services/core/assessments"
	"mindhub-service/internal/app/services/core/forms"
	"mindhub-service/internal/app/services/core/frontdesk"
	"mindhub-service/internal/app/services/core/patients"
	"mindhub-service/internal/app/services/core/templates"
	"mindhub-service/internal/app/services/shared/jwtmanager"
	"mindhub-service/internal/app/services/shared/locker"
	"mindhub-service/internal/app/services/shared/ratelimiter"
	"mindhub-service/internal/app/services/shared/redis"
	sharedStorage "mindhub-service/internal/app/services/shared/storage"
	"mindhub-service/internal/app/services/shared/submissionqueue"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const financeBlockTime = time.Minute

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if internalConfig.Minio.BucketName == "" {
		internalConfig.Minio.BucketName = driverConfig.Minio.BucketName
	}

	log, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	if err := monitoring.InitSentry(driverConfig, internalConfig, log); err != nil {
		log.Fatal("Error initializing sentry", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoDB, err := database.NewMongoDB(startupCtx, driverConfig, log)
	if err != nil {
		log.Fatal("Error connecting to mongodb", zap.Error(err))
	}
	redisClient, err := database.NewRedisClient(startupCtx, driverConfig, log)
	if err != nil {
		log.Fatal("Error connecting to redis", zap.Error(err))
	}
	rabbitMQ, err := messaging.NewRabbitMQ(driverConfig, log)
	if err != nil {
		log.Fatal("Error connecting to rabbitmq", zap.Error(err))
	}
	minioClient, err := storage.NewMinio(startupCtx, driverConfig, log)
	if err != nil {
		log.Fatal("Error connecting to minio", zap.Error(err))
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		Logger:         log,
		RabbitMQ:       rabbitMQ,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	if err := bootstrapingTheApp(bootstrap); err != nil {
		log.Fatal("Error bootstrapping the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Error releasing resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)
	resourceLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)
	minioStorage := sharedStorage.NewMinioStorage(bootstrap.Minio)

	submissionQueue, err := submissionqueue.NewService(bootstrap.RabbitMQ, log, cfg, cfg.Queue.MaxQueue)
	if err != nil {
		return fmt.Errorf("submission queue: %w", err)
	}

	jwtManager, err := jwtmanager.NewJWTManager(cfg, log)
	if err != nil {
		return fmt.Errorf("jwt manager: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(cfg.Security.CasbinModelPath, cfg.Security.CasbinPolicyPath)
	if err != nil {
		return fmt.Errorf("casbin enforcer: %w", err)
	}

	// Clinical backend
	transport := backend.NewTransport(cfg, jwtManager, log)
	clinimetrixClient := backend.NewClinimetrixClient(transport, log)
	expedixClient := backend.NewExpedixClient(transport, log)
	formXClient := backend.NewFormXClient(transport, log)
	frontDeskClient := backend.NewFrontDeskClient(transport, log)
	patientTagClient := backend.NewPatientTagClient(transport, log)
	timelineClient := backend.NewTimelineClient(transport, log)

	// Scales and assessments
	templateUsecase := templates.NewTemplateUsecase(clinimetrixClient, redisRepository, cfg, log)
	assessmentRepository := assessments.NewAssessmentMongoRepository(bootstrap.MongoDB)
	assessmentUsecase := assessments.NewAssessmentUsecase(
		assessmentRepository,
		templateUsecase,
		clinimetrixClient,
		lockerService,
		resourceLimiter,
		submissionQueue,
		minioStorage,
		cfg,
		log,
	)

	// Forms
	formDraftRepository := forms.NewFormDraftMongoRepository(bootstrap.MongoDB)
	formUsecase := forms.NewFormUsecase(formDraftRepository, formXClient, minioStorage, cfg, log)

	// Patients and front desk
	patientUsecase := patients.NewPatientUsecase(expedixClient, patientTagClient, timelineClient, cfg, log)
	frontDeskUsecase := frontdesk.NewFrontDeskUsecase(frontDeskClient, cfg, log)

	// Workers
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	autosaveWorker := assessments.NewAutosaveWorker(log, cfg, lockerService, assessmentUsecase)
	submissionWorker := assessments.NewSubmissionWorker(log, cfg, lockerService, submissionQueue, clinimetrixClient, assessmentUsecase)
	autosaveWorker.Start(workerCtx)
	submissionWorker.Start(workerCtx)
	bootstrap.WorkerStop = func() {
		autosaveWorker.Stop()
		submissionWorker.Stop()
		cancelWorkers()
	}

	// Delivery
	mw := middlewares.NewMiddlewares(log, cfg, jwtManager, enforcer)
	financeLimiter := middlewares.NewRateLimiter(log, cfg.RateLimit.FinancePerIPPerSecond, cfg.RateLimit.FinancePerIPBurst, financeBlockTime)

	healthChecks := map[string]controllers.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return bootstrap.MongoDB.Client().Ping(ctx, readpref.Primary())
		},
		"redis": func(ctx context.Context) error {
			return bootstrap.Redis.Ping(ctx).Err()
		},
		"rabbitmq": func(ctx context.Context) error {
			if bootstrap.RabbitMQ.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		},
		"minio": func(ctx context.Context) error {
			_, err := bootstrap.Minio.BucketExists(ctx, cfg.Minio.BucketName)
			return err
		},
	}

	routers.SetupRoutes(
		bootstrap.Router,
		cfg,
		mw,
		financeLimiter,
		controllers.NewTemplateController(log, templateUsecase),
		controllers.NewAssessmentController(log, assessmentUsecase),
		controllers.NewFormController(log, formUsecase),
		controllers.NewPatientController(log, patientUsecase),
		controllers.NewFrontDeskController(log, frontDeskUsecase),
		controllers.NewOpsController(log, healthChecks, assessmentUsecase, submissionWorker),
	)
	return nil
}
