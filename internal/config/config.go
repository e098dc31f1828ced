package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/hibiken/asynq"
)

type Config struct {
	Queue     QueueConfig
	Worker    WorkerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Pipeline  PipelineConfig
	Telemetry TelemetryConfig
}

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Name          string
}

func (q QueueConfig) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     q.RedisAddr,
		Password: q.RedisPassword,
		DB:       q.RedisDB,
	}
}

type WorkerConfig struct {
	Concurrency   int
	MaxActiveJobs int
	MetricsAddr   string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// LocalDir, when set, swaps the MinIO-backed artifact store for a
	// plain filesystem store rooted at the directory. Dev convenience.
	LocalDir string
}

type DatabaseConfig struct {
	DSN string
}

// PipelineConfig carries every derivative tunable that used to be a
// hard-coded constant in the gallery application.
type PipelineConfig struct {
	TempDir           string
	WatermarkPrefix   string
	MaxWidth          int
	MaxHeight         int
	ThumbWidth        int
	ThumbHeight       int
	JPEGQuality       int
	WatermarkFraction float64
	WatermarkMaxWidth int
	WatermarkPadding  int
}

type TelemetryConfig struct {
	ServiceName  string
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

func Load() Config {
	defaultWorkerSlots := max(1, runtime.NumCPU()/2)

	return Config{
		Queue: QueueConfig{
			RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
			RedisPassword: env("REDIS_PASSWORD", ""),
			RedisDB:       envInt("REDIS_DB", 0),
			Name:          env("QUEUE_NAME", "derivatives"),
		},
		Worker: WorkerConfig{
			Concurrency:   envInt("WORKER_CONCURRENCY", max(2, runtime.NumCPU())),
			MaxActiveJobs: envInt("WORKER_MAX_ACTIVE_JOBS", defaultWorkerSlots),
			MetricsAddr:   env("WORKER_METRICS_ADDR", ":9180"),
		},
		Storage: StorageConfig{
			Endpoint:  env("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: env("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: env("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    env("MINIO_BUCKET", "galleryforge-artifacts"),
			UseSSL:    envBool("MINIO_USE_SSL", false),
			LocalDir:  env("STORAGE_LOCAL_DIR", ""),
		},
		Database: DatabaseConfig{
			DSN: env("POSTGRES_DSN", ""),
		},
		Pipeline: PipelineConfig{
			TempDir:           env("PIPELINE_TEMP_DIR", "./.galleryforge-tmp"),
			WatermarkPrefix:   env("PIPELINE_WATERMARK_PREFIX", "watermarks"),
			MaxWidth:          envInt("PIPELINE_MAX_WIDTH", 1920),
			MaxHeight:         envInt("PIPELINE_MAX_HEIGHT", 1080),
			ThumbWidth:        envInt("PIPELINE_THUMB_WIDTH", 300),
			ThumbHeight:       envInt("PIPELINE_THUMB_HEIGHT", 200),
			JPEGQuality:       envInt("PIPELINE_JPEG_QUALITY", 80),
			WatermarkFraction: envFloat("PIPELINE_WATERMARK_FRACTION", 0.20),
			WatermarkMaxWidth: envInt("PIPELINE_WATERMARK_MAX_WIDTH", 200),
			WatermarkPadding:  envInt("PIPELINE_WATERMARK_PADDING", 10),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  env("OTEL_SERVICE_NAME", "galleryforge-worker"),
			Exporter:     env("TRACE_EXPORTER", "none"),
			OTLPEndpoint: env("OTLP_ENDPOINT", ""),
			OTLPInsecure: envBool("OTLP_INSECURE", true),
		},
	}
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
