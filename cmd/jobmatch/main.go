package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	jobrepo "github.com/kailas-cloud/jobmatch/internal/repository/job"
	"github.com/kailas-cloud/jobmatch/internal/repository/verdictcache"
	chiTransport "github.com/kailas-cloud/jobmatch/internal/transport/chi"
	openaiChat "github.com/kailas-cloud/jobmatch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	searchuc "github.com/kailas-cloud/jobmatch/internal/usecase/search"
	"github.com/kailas-cloud/jobmatch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting jobmatch API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("search_index", cfg.Search.Index),
		zap.String("primary_model", cfg.LLM.PrimaryModel),
		zap.String("fallback_model", cfg.LLM.FallbackModel),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register LLM metrics explicitly (no init())
	metrics.RegisterLLMMetrics()

	if cfg.LLM.APIKey == "" {
		logger.Warn("OPENROUTER_API_KEY is not set; /match will report the missing credential, /search keeps working")
	}

	chat := openaiChat.NewClient(&openaiChat.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	completer := buildCompleter(chat, store, cfg.LLM, logger)

	analyzer := matchuc.New(completer, matchuc.Config{
		APIKey:         cfg.LLM.APIKey,
		PrimaryModel:   cfg.LLM.PrimaryModel,
		FallbackModel:  cfg.LLM.FallbackModel,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		ValidateOutput: *cfg.LLM.ValidateOutput,
	})

	jobs := jobrepo.New(store, cfg.Search.Index)
	searchSvc := searchuc.New(jobs, cfg.Search.CandidateWindow)

	// LLM health is only checked when a credential is configured.
	var llmChecker healthuc.LLMChecker
	if cfg.LLM.APIKey != "" {
		llmChecker = chat
	}
	healthSvc := healthuc.New(store, store, jobs.Index(), llmChecker)

	server := chiTransport.NewServer(searchSvc, analyzer, healthSvc)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys: cfg.Auth.APIKeys,
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCompleter wraps the provider client with the verdict cache when a TTL is configured.
func buildCompleter(
	chat *openaiChat.Client,
	store *dbRedis.Store,
	llmCfg config.LLMConfig,
	logger *zap.Logger,
) domain.ChatCompleter {
	if llmCfg.CacheTTLSec <= 0 {
		return chat
	}
	logger.Info("Verdict cache enabled", zap.Int("ttl_sec", llmCfg.CacheTTLSec))
	return verdictcache.New(
		chat, store, time.Duration(llmCfg.CacheTTLSec)*time.Second, metrics.LLMCacheTotal, logger,
	)
}
