package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeprep/internal/api"
	"codeprep/internal/app/generator"
	"codeprep/internal/app/judge"
	"codeprep/internal/app/service"
	"codeprep/internal/app/store"
	"codeprep/internal/common/security"
	"codeprep/internal/domain/repository"
	"codeprep/internal/platform/cache"
	"codeprep/internal/platform/config"
	"codeprep/internal/platform/database"
	"codeprep/internal/platform/logging"
)

func main() {
	config.Load()
	security.InitJWT()

	log := logging.New()
	defer log.Sync()

	database.Connect()
	defer database.Close()
	log.Info("database connected")

	// The problem store decides whether Redis is needed at all.
	var problemStore store.ProblemStore
	switch config.AppConfig.ProblemStoreBackend {
	case "redis":
		cache.ConnectRedis()
		defer cache.CloseRedis()
		problemStore = store.NewRedisStore(cache.RDB, config.AppConfig.ProblemTTL)
		log.Infow("problem store backend", "backend", "redis", "ttl", config.AppConfig.ProblemTTL)
	default:
		problemStore = store.NewMemoryStore()
		log.Infow("problem store backend", "backend", "memory")
	}

	registry := judge.NewRegistry(config.AppConfig.JudgeLanguages)
	judgeClient := judge.NewClient(
		config.AppConfig.JudgeURL,
		config.AppConfig.JudgeAPIKey,
		config.AppConfig.JudgeTimeout,
		config.AppConfig.JudgeMaxConcurrency,
		log,
	)
	defer judgeClient.Stop()

	genClient := generator.NewClient(config.AppConfig.GeneratorURL, config.AppConfig.GeneratorTimeout, log)

	userRepo := repository.NewPgUserRepository(database.DB)
	attemptRepo := repository.NewPgAttemptRepository(database.DB)

	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(genClient, problemStore, log)
	gradingService := service.NewGradingService(problemStore, registry, judgeClient, attemptRepo, log)

	router := api.NewRouter(authService, problemService, gradingService, attemptRepo)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // grading runs N sequential backend calls
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infow("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-stop
	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server shutdown failed", "error", err)
	}
	log.Info("server stopped gracefully")
}
