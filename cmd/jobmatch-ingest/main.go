// Command jobmatch-ingest loads a JSON array of job postings into the search store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	jobrepo "github.com/kailas-cloud/jobmatch/internal/repository/job"
	ingestuc "github.com/kailas-cloud/jobmatch/internal/usecase/ingest"
	"github.com/kailas-cloud/jobmatch/internal/version"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of job documents")
	batchSize := flag.Int("batch", 0, "documents per pipelined write (default: ingest.batch_size)")
	workers := flag.Int("workers", 0, "concurrent writers (default: ingest.workers)")
	recreate := flag.Bool("recreate", false, "drop the search index before ingesting")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: jobmatch-ingest -file jobs.json")
		os.Exit(2)
	}

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

	if *batchSize <= 0 {
		*batchSize = cfg.Ingest.BatchSize
	}
	if *workers <= 0 {
		*workers = cfg.Ingest.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	if err := run(ctx, cfg, *file, *batchSize, *workers, *recreate); err != nil {
		logger.Error("Ingest failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, path string, batchSize, workers int, recreate bool) error {
	log := logpkg.FromContext(ctx)

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	repo := jobrepo.New(store, cfg.Search.Index)
	if recreate {
		if err := repo.DropIndex(ctx); err != nil {
			return err
		}
		log.Info("Dropped search index", zap.String("index", repo.Index()))
	}

	log.Info("Ingesting jobs",
		zap.String("file", path),
		zap.String("index", repo.Index()),
		zap.Int("batch_size", batchSize),
		zap.Int("workers", workers),
	)

	res, err := ingestuc.New(repo, batchSize, workers).Ingest(ctx, f)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", res.Failed, res.Processed+res.Failed)
	}
	return nil
}
