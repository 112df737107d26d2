package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"questionnaire-reader/internal/config"
	"questionnaire-reader/internal/dataset"
	"questionnaire-reader/internal/db"
	apihttp "questionnaire-reader/internal/http"
	"questionnaire-reader/internal/logging"
	"questionnaire-reader/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	layout, err := dataset.LoadLayout(cfg.LayoutFile)
	if err != nil {
		logger.Fatal("load layout", zap.String("path", cfg.LayoutFile), zap.Error(err))
	}

	var (
		revocations service.RevocationStore
		redisClient *redis.Client
	)
	if client := db.NewRedisClient(cfg); client != nil {
		if err := db.Ping(ctx, client); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			_ = client.Close()
		} else {
			redisClient = client
			revocations = service.NewRedisRevocationStore(redisClient)
			defer redisClient.Close()
		}
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute, revocations)
	if !tokenSvc.Enabled() {
		logger.Warn("jwt secret not configured, api is open")
	}
	limiter := service.NewRateLimiter(redisClient, cfg.RateLimitPerMinute)

	scoringSvc := service.NewScoringService(cfg.ScoringWorkers, logger)
	scoreHandler := apihttp.NewScoreHandler(logger, scoringSvc)
	datasetHandler := apihttp.NewDatasetHandler(logger, scoringSvc, layout, cfg.MaxUploadBytes)
	router := apihttp.NewRouter(logger, scoreHandler, datasetHandler, tokenSvc, limiter, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
