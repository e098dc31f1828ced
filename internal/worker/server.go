package worker

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dunamismax/galleryforge/internal/config"
	"github.com/dunamismax/galleryforge/internal/domain"
	"github.com/dunamismax/galleryforge/internal/pipeline"
	"github.com/dunamismax/galleryforge/internal/queue"
)

// Server consumes the derivative queue and drives the pipeline. One
// task equals one job; the queue redelivers after crashes (at-least-once),
// and only true failures are handed back for retry.
type Server struct {
	logger    *log.Logger
	server    *asynq.Server
	sem       chan struct{}
	processor *pipeline.Processor
	metrics   *metrics
	tracer    trace.Tracer
}

func NewServer(
	logger *log.Logger,
	queueCfg config.QueueConfig,
	workerCfg config.WorkerConfig,
	processor *pipeline.Processor,
) (*Server, error) {
	if processor == nil {
		return nil, fmt.Errorf("pipeline processor is required")
	}

	s := &Server{
		logger: logger,
		server: asynq.NewServer(
			queueCfg.RedisClientOpt(),
			asynq.Config{
				Concurrency: workerCfg.Concurrency,
				Queues: map[string]int{
					queueCfg.Name: 1,
				},
				LogLevel: asynq.InfoLevel,
				ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
					retried, _ := asynq.GetRetryCount(ctx)
					maxRetry, _ := asynq.GetMaxRetry(ctx)
					logger.Printf("task failed type=%s retry=%d/%d err=%v", task.Type(), retried, maxRetry, err)
				}),
			},
		),
		sem:       make(chan struct{}, max(1, workerCfg.MaxActiveJobs)),
		processor: processor,
		metrics:   newMetrics(),
		tracer:    otel.Tracer("galleryforge/worker"),
	}
	return s, nil
}

func (s *Server) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeProcessUpload, s.handleProcessUpload)
	return s.server.Run(mux)
}

func (s *Server) Shutdown() {
	s.server.Shutdown()
}

func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}

func (s *Server) handleProcessUpload(ctx context.Context, task *asynq.Task) error {
	startedAt := time.Now()
	outcome := domain.OutcomeFailed

	payload, err := queue.ParseProcessUploadPayload(task)
	if err != nil {
		// A payload that cannot be parsed will never become valid;
		// retrying would just burn attempts.
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx, span := s.tracer.Start(ctx, "worker.process_upload", trace.WithSpanKind(trace.SpanKindConsumer))
	span.SetAttributes(
		attribute.String("job.temp_path", payload.TempPath),
		attribute.Int64("job.collection_id", payload.CollectionID),
		attribute.Bool("job.watermark_requested", payload.WatermarkSelector != ""),
	)
	defer span.End()
	defer func() {
		s.metrics.jobDuration.WithLabelValues(outcome).Observe(time.Since(startedAt).Seconds())
		s.metrics.jobsTotal.WithLabelValues(outcome).Inc()
	}()

	s.sem <- struct{}{}
	s.metrics.activeJobs.Inc()
	defer func() {
		<-s.sem
		s.metrics.activeJobs.Dec()
	}()

	s.logger.Printf(
		"processing upload temp_path=%s collection_id=%d file=%q watermark=%q",
		payload.TempPath,
		payload.CollectionID,
		payload.OriginalFileName,
		payload.WatermarkSelector,
	)

	result, err := s.processor.Process(ctx, pipeline.Job{
		TempPath:          payload.TempPath,
		CollectionID:      payload.CollectionID,
		OriginalFileName:  payload.OriginalFileName,
		WatermarkSelector: payload.WatermarkSelector,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		return fmt.Errorf("process upload: %w", err)
	}

	outcome = result.Outcome
	switch result.Outcome {
	case domain.OutcomeSkipped:
		// Deliberate no-op, handled upstream or stale by the time the
		// job ran. Reporting success keeps it out of the retry loop.
		s.metrics.skipsTotal.WithLabelValues(result.Reason).Inc()
		span.SetAttributes(attribute.String("job.skip_reason", result.Reason))
		span.SetStatus(codes.Ok, "skipped")
		s.logger.Printf("skipped upload temp_path=%s reason=%s", payload.TempPath, result.Reason)
		return nil
	default:
		record := result.Record
		s.metrics.artifactsTotal.WithLabelValues("base").Inc()
		s.metrics.artifactsTotal.WithLabelValues("thumb").Inc()
		if record.WatermarkApplied {
			s.metrics.artifactsTotal.WithLabelValues("watermarked").Inc()
		}
		s.metrics.bytesStored.Add(float64(record.Metadata.FileSize))
		span.SetAttributes(attribute.Int64("record.id", record.ID))
		span.SetStatus(codes.Ok, "processed")
		s.logger.Printf(
			"processed upload record_id=%d collection_id=%d base=%s thumb=%s watermark_applied=%t",
			record.ID,
			record.CollectionID,
			record.PathOriginal,
			record.PathThumb,
			record.WatermarkApplied,
		)
		return nil
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
