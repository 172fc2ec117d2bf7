package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/agro-export/backend/internal/api/http"
	"github.com/agro-export/backend/internal/cache"
	"github.com/agro-export/backend/internal/config"
	"github.com/agro-export/backend/internal/db"
	"github.com/agro-export/backend/internal/queue/asynqserver"
	queueClient "github.com/agro-export/backend/internal/queue/client"
	"github.com/agro-export/backend/internal/repository"
	"github.com/agro-export/backend/internal/server"
	"github.com/agro-export/backend/internal/service"
	"github.com/agro-export/backend/internal/worker"
	"github.com/agro-export/backend/pkg/email/smtp"
	"github.com/agro-export/backend/pkg/hash"
	"github.com/agro-export/backend/pkg/logger"
	"github.com/agro-export/backend/pkg/otp"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	appLogger.Info("starting backend api", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	// Init database
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.Database.Timeout)
	dbMySQL, err := db.New(connectCtx, cfg.Database)
	cancelConnect()
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	// Init redis
	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Error("redis connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("error when closing redis", zap.Error(err))
		}
	}()
	appLogger.Info("redis connection done")

	// Init queue client
	asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
	defer func() {
		if err := asynqClient.Close(); err != nil {
			appLogger.Error("error when closing asynq client", zap.Error(err))
		}
	}()
	restoreClient := queueClient.SetClient(asynqClient)
	defer restoreClient()

	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Error("smtp sender creation failed", zap.Error(err))
		return
	}

	otpGenerator := otp.NewGOTPGenerator()

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL, redisClient, cfg.PasswordReset)
	services := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hasher,
		OtpGenerator: otpGenerator,
		EmailSender:  emailSender,
		Notifier:     queueClient.NewEnqueuer(cfg.Queue.MaxRetry),
		Repos:        repos,
	})
	handlers := apiHttp.NewHandlers(services, cfg)

	// Background workers
	workers := worker.NewWorkers(worker.Deps{
		EmailProvider: emailSender,
		Config:        cfg,
	})
	asynqSrv, asynqMux := asynqserver.New(cfg, workers)
	if err := asynqSrv.Start(asynqMux); err != nil {
		appLogger.Error("asynq server start failed", zap.Error(err))
		return
	}
	appLogger.Info("queue worker started")

	// HTTP Server
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	srv := server.NewServer(cfg, handlers.Init(appCtx))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	asynqSrv.Shutdown()
	stopApp()

	appLogger.Info("app stopped")
}
