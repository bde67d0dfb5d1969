package main

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/config"
	"github.com/gabrielvps/PintClub/internal/capture"
	"github.com/gabrielvps/PintClub/internal/consumer"
	"github.com/gabrielvps/PintClub/internal/handlers"
	"github.com/gabrielvps/PintClub/internal/repositories"
	"github.com/gabrielvps/PintClub/internal/routers"
	"github.com/gabrielvps/PintClub/internal/services"
	"github.com/gabrielvps/PintClub/internal/storage"
	"github.com/gabrielvps/PintClub/internal/utils"
	"github.com/gabrielvps/PintClub/middleware/jwt"
	logger "github.com/gabrielvps/PintClub/middleware/log"
	"github.com/gabrielvps/PintClub/pkg/mq"
	"github.com/gabrielvps/PintClub/utils/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Close()

	// Worker pool for async request handling.
	utils.InitGlobalWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)

	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("failed to init postgres: %v", err)
	}

	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		log.Fatalf("failed to init redis: %v", err)
	}

	store, err := storage.NewObjectStore(cfg.Storage.RootDir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("failed to init object store: %v", err)
	}

	profileRepo := repositories.NewProfileRepository(postgres, redisClient)
	groupRepo := repositories.NewGroupRepository(postgres)
	inviteRepo := repositories.NewInviteRepository(postgres)
	pintRepo := repositories.NewPintRepository(postgres, redisClient)
	friendRepo := repositories.NewFriendRepository(postgres)

	tokens := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Pint-created events are published here and consumed below; with no
	// broker available points are awarded synchronously instead.
	kafkaProducer, err := mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Printf("kafka producer unavailable, running in degraded mode: %v", err)
		kafkaProducer = nil
	} else {
		defer kafkaProducer.Close()
	}

	authService := services.NewAuthService(profileRepo, tokens)
	groupService := services.NewGroupService(groupRepo, profileRepo)
	inviteService := services.NewInviteService(inviteRepo, groupRepo, profileRepo)
	pintService := services.NewPintService(pintRepo, groupRepo, friendRepo, store, kafkaProducer, cfg.Storage.PintBucket)
	friendService := services.NewFriendService(friendRepo, profileRepo)
	profileService := services.NewProfileService(profileRepo, store, cfg.Storage.ProfileBucket)

	if kafkaProducer != nil {
		pintConsumer := consumer.NewPintEventConsumer(pintService)
		consumer.StartConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, pintConsumer)
	}

	captureManager := capture.NewManager()

	limiter := ratelimit.NewTokenBucketLimiter(redisClient, appLogger.Logger, cfg.RateLimit.FailOpen)

	h := &routers.Handlers{
		Auth:    handlers.NewAuthHandler(authService, captureManager),
		Group:   handlers.NewGroupHandler(groupService),
		Invite:  handlers.NewInviteHandler(inviteService, cfg.Server.PublicBaseURL),
		Pint:    handlers.NewPintHandler(pintService),
		Capture: handlers.NewCaptureHandler(captureManager, groupService, pintService),
		Friend:  handlers.NewFriendHandler(friendService),
		Profile: handlers.NewProfileHandler(profileService),
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	routers.SetupRoutes(r, cfg, appLogger, tokens, limiter, h)

	log.Printf("starting server on :%d", cfg.Server.Port)
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
