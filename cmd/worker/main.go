package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dunamismax/galleryforge/internal/config"
	"github.com/dunamismax/galleryforge/internal/pipeline"
	"github.com/dunamismax/galleryforge/internal/storage"
	"github.com/dunamismax/galleryforge/internal/store"
	"github.com/dunamismax/galleryforge/internal/telemetry"
	"github.com/dunamismax/galleryforge/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.New(os.Stdout, "[worker] ", log.LstdFlags|log.Lmsgprefix)

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Fatalf("tracing setup failed: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Printf("tracing shutdown failed: %v", err)
		}
	}()

	// Fail fast if Redis is unreachable instead of letting the queue
	// server spin on connection errors.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.RedisAddr,
		Password: cfg.Queue.RedisPassword,
		DB:       cfg.Queue.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		logger.Fatalf("redis unreachable at %s: %v", cfg.Queue.RedisAddr, err)
	}
	cancel()
	_ = redisClient.Close()

	blobs, err := newBlobStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("blob store setup failed: %v", err)
	}

	temp, err := storage.NewTempStore(cfg.Pipeline.TempDir)
	if err != nil {
		logger.Fatalf("temp store setup failed: %v", err)
	}

	catalog, err := newCatalogStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatalf("catalog store setup failed: %v", err)
	}

	watermarks := storage.NewWatermarkSource(blobs, cfg.Pipeline.WatermarkPrefix)

	processor, err := pipeline.NewProcessor(temp, blobs, watermarks, catalog, pipelineOptions(cfg.Pipeline), logger)
	if err != nil {
		logger.Fatalf("pipeline setup failed: %v", err)
	}

	srv, err := worker.NewServer(logger, cfg.Queue, cfg.Worker, processor)
	if err != nil {
		logger.Fatalf("worker setup failed: %v", err)
	}

	go func() {
		logger.Printf("metrics listening on %s", cfg.Worker.MetricsAddr)
		metricsServer := &http.Server{
			Addr:         cfg.Worker.MetricsAddr,
			Handler:      srv.MetricsHandler(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("metrics server failed: %v", err)
		}
	}()

	logger.Printf(
		"starting worker concurrency=%d max_active_jobs=%d queue=%s redis=%s",
		cfg.Worker.Concurrency,
		cfg.Worker.MaxActiveJobs,
		cfg.Queue.Name,
		cfg.Queue.RedisAddr,
	)
	if err := srv.Run(); err != nil {
		logger.Fatalf("worker failed: %v", err)
	}
}

func pipelineOptions(cfg config.PipelineConfig) pipeline.Options {
	return pipeline.Options{
		MaxWidth:          cfg.MaxWidth,
		MaxHeight:         cfg.MaxHeight,
		ThumbWidth:        cfg.ThumbWidth,
		ThumbHeight:       cfg.ThumbHeight,
		JPEGQuality:       cfg.JPEGQuality,
		WatermarkFraction: cfg.WatermarkFraction,
		WatermarkMaxWidth: cfg.WatermarkMaxWidth,
		WatermarkPadding:  cfg.WatermarkPadding,
	}
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig, logger *log.Logger) (pipeline.BlobStore, error) {
	if cfg.LocalDir != "" {
		logger.Printf("using local artifact store dir=%s", cfg.LocalDir)
		return storage.NewLocalBlobStore(cfg.LocalDir)
	}

	ms, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint: cfg.Endpoint,
		Access:   cfg.AccessKey,
		Secret:   cfg.SecretKey,
		Bucket:   cfg.Bucket,
		UseSSL:   cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := ms.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Printf("using minio artifact store endpoint=%s bucket=%s", cfg.Endpoint, cfg.Bucket)
	return ms, nil
}

func newCatalogStore(ctx context.Context, cfg config.DatabaseConfig, logger *log.Logger) (store.CatalogStore, error) {
	if cfg.DSN == "" {
		logger.Printf("POSTGRES_DSN not set, catalog records will not survive restarts")
		return store.NewMemoryCatalogStore(), nil
	}
	return store.NewPostgresCatalogStore(ctx, cfg.DSN)
}
