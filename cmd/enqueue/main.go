// Command enqueue stages an image file into temp storage and submits a
// derivative job for it, honoring the producer side of the job contract:
// bytes land in temp storage before the task is enqueued, and temp paths
// are never reused.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dunamismax/galleryforge/internal/config"
	"github.com/dunamismax/galleryforge/internal/queue"
	"github.com/dunamismax/galleryforge/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "[enqueue] ", log.LstdFlags|log.Lmsgprefix)

	var (
		filePath     = flag.String("file", "", "path of the image file to process")
		collectionID = flag.Int64("collection", 0, "target collection id")
		watermark    = flag.String("watermark", "", "watermark selector (optional)")
	)
	flag.Parse()

	if *filePath == "" || *collectionID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		logger.Fatalf("read source file: %v", err)
	}

	temp, err := storage.NewTempStore(cfg.Pipeline.TempDir)
	if err != nil {
		logger.Fatalf("temp store setup failed: %v", err)
	}

	originalName := filepath.Base(*filePath)
	tempPath := fmt.Sprintf("uploads/%s%s", uuid.NewString(), filepath.Ext(originalName))
	if err := temp.Stage(ctx, tempPath, data); err != nil {
		logger.Fatalf("stage upload: %v", err)
	}

	client := queue.NewClient(cfg.Queue.RedisClientOpt(), cfg.Queue.Name)
	defer func() {
		if err := client.Close(); err != nil {
			logger.Printf("queue client close error: %v", err)
		}
	}()

	info, err := client.EnqueueProcessUpload(ctx, queue.ProcessUploadPayload{
		TempPath:          tempPath,
		CollectionID:      *collectionID,
		OriginalFileName:  originalName,
		WatermarkSelector: *watermark,
		EnqueuedAt:        time.Now().UTC(),
	})
	if err != nil {
		logger.Fatalf("enqueue job: %v", err)
	}

	logger.Printf("enqueued task_id=%s queue=%s temp_path=%s collection_id=%d", info.ID, info.Queue, tempPath, *collectionID)
}
