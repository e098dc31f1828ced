package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/dunamismax/galleryforge/internal/domain"
	"github.com/dunamismax/galleryforge/internal/slug"

	_ "golang.org/x/image/webp"
)

// Catalog is the slice of the catalog store the pipeline needs: an
// existence check on the target collection and a single record insert at
// the end of a successful run.
type Catalog interface {
	CollectionExists(ctx context.Context, id int64) (bool, error)
	CreateDerivativeSet(ctx context.Context, set domain.DerivativeSet) (int64, error)
}

// Job is one unit of work handed to Process. Fields mirror the queue
// payload; an empty WatermarkSelector requests no watermark.
type Job struct {
	TempPath          string
	CollectionID      int64
	OriginalFileName  string
	WatermarkSelector string
}

// Result reports how a job terminated. Record is non-nil only for
// succeeded jobs. Skips (missing source, vanished collection) are clean
// outcomes, not errors, and must not be retried.
type Result struct {
	Outcome string
	Reason  string
	Record  *domain.DerivativeSet
}

type Processor struct {
	temp       TempStore
	blobs      BlobStore
	watermarks WatermarkSource
	catalog    Catalog
	opts       Options
	logger     *log.Logger
}

func NewProcessor(temp TempStore, blobs BlobStore, watermarks WatermarkSource, catalog Catalog, opts Options, logger *log.Logger) (*Processor, error) {
	if temp == nil || blobs == nil || catalog == nil {
		return nil, fmt.Errorf("temp store, blob store, and catalog are required")
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("pipeline options: %w", err)
	}
	return &Processor{
		temp:       temp,
		blobs:      blobs,
		watermarks: watermarks,
		catalog:    catalog,
		opts:       opts,
		logger:     logger,
	}, nil
}

// Process runs a job's stages sequentially: validate the source and
// collection, resize, optionally composite a watermark, crop the
// thumbnail, store every artifact, then persist the catalog record. The
// record is written only after all artifact writes succeed, so the
// catalog never references a path that does not exist. The temp source
// is removed on every exit path once it has been seen to exist.
func (p *Processor) Process(ctx context.Context, job Job) (Result, error) {
	ok, err := p.temp.Exists(ctx, job.TempPath)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("stat temp source %s: %w", job.TempPath, err)
	}
	if !ok {
		p.logger.Printf("temp source missing, skipping temp_path=%s collection_id=%d", job.TempPath, job.CollectionID)
		return Result{Outcome: domain.OutcomeSkipped, Reason: "source_missing"}, nil
	}

	// The source exists, so from here on it is this job's responsibility
	// to remove it, whatever the outcome.
	defer p.cleanup(ctx, job.TempPath)

	exists, err := p.catalog.CollectionExists(ctx, job.CollectionID)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("check collection %d: %w", job.CollectionID, err)
	}
	if !exists {
		p.logger.Printf("collection not found, skipping collection_id=%d temp_path=%s", job.CollectionID, job.TempPath)
		return Result{Outcome: domain.OutcomeSkipped, Reason: "collection_not_found"}, nil
	}

	data, err := p.temp.Read(ctx, job.TempPath)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("read temp source %s: %w", job.TempPath, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("%w: %s: %v", ErrDecode, job.OriginalFileName, err)
	}

	origW := src.Bounds().Dx()
	origH := src.Bounds().Dy()
	newW, newH := boundedSize(origW, origH, p.opts.MaxWidth, p.opts.MaxHeight)
	base := resizeBase(src, newW, newH)

	ext := artifactExt(job.OriginalFileName)
	keys := buildArtifactKeys(job.CollectionID, uuid.NewString(), slug.Make(baseName(job.OriginalFileName)), ext)

	baseBytes, mimeType, err := encodeArtifact(base, ext, p.opts.JPEGQuality)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, err
	}
	if err := p.blobs.Write(ctx, keys.Base, baseBytes, mimeType); err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("%w: write base %s: %v", ErrStorage, keys.Base, err)
	}

	watermarkApplied := false
	var watermarkedPath *string
	if job.WatermarkSelector != "" {
		mark, err := p.loadWatermark(ctx, job.WatermarkSelector)
		if err != nil {
			p.logger.Printf("proceeding without watermark selector=%s err=%v", job.WatermarkSelector, err)
		} else {
			composite := overlayWatermark(base, mark, p.opts)
			compositeBytes, _, err := encodeArtifact(composite, ext, p.opts.JPEGQuality)
			if err != nil {
				return Result{Outcome: domain.OutcomeFailed}, err
			}
			if err := p.blobs.Write(ctx, keys.Watermarked, compositeBytes, mimeType); err != nil {
				return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("%w: write watermarked %s: %v", ErrStorage, keys.Watermarked, err)
			}
			watermarkApplied = true
			watermarkedPath = &keys.Watermarked
		}
	}

	thumb := centerCropThumb(base, p.opts.ThumbWidth, p.opts.ThumbHeight)
	thumbBytes, _, err := encodeArtifact(thumb, ext, p.opts.JPEGQuality)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, err
	}
	if err := p.blobs.Write(ctx, keys.Thumb, thumbBytes, mimeType); err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("%w: write thumb %s: %v", ErrStorage, keys.Thumb, err)
	}

	baseSize, err := p.blobs.Size(ctx, keys.Base)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("%w: stat base %s: %v", ErrStorage, keys.Base, err)
	}

	var selectorUsed *string
	if job.WatermarkSelector != "" {
		selectorUsed = &job.WatermarkSelector
	}

	record := domain.DerivativeSet{
		CollectionID:     job.CollectionID,
		OriginalFileName: job.OriginalFileName,
		PathOriginal:     keys.Base,
		PathThumb:        keys.Thumb,
		WatermarkApplied: watermarkApplied,
		Metadata: domain.Metadata{
			OriginalWidth:     origW,
			OriginalHeight:    origH,
			FinalWidth:        newW,
			FinalHeight:       newH,
			FileSize:          baseSize,
			MimeType:          mimeType,
			WatermarkedPath:   watermarkedPath,
			WatermarkFileUsed: selectorUsed,
		},
		CreatedAt: time.Now().UTC(),
	}

	id, err := p.catalog.CreateDerivativeSet(ctx, record)
	if err != nil {
		return Result{Outcome: domain.OutcomeFailed}, fmt.Errorf("persist derivative record: %w", err)
	}
	record.ID = id

	return Result{Outcome: domain.OutcomeSucceeded, Record: &record}, nil
}

func (p *Processor) loadWatermark(ctx context.Context, selector string) (image.Image, error) {
	if p.watermarks == nil {
		return nil, fmt.Errorf("%w: no watermark source configured", ErrWatermarkUnavailable)
	}
	mark, err := p.watermarks.Load(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWatermarkUnavailable, selector, err)
	}
	return mark, nil
}

// cleanup removes the temp source regardless of how the job terminated.
// It runs on a cancellation-free context so a timed-out job still gets
// its source deleted, and its own failure is logged without overriding
// the job's outcome.
func (p *Processor) cleanup(ctx context.Context, relPath string) {
	ctx = context.WithoutCancel(ctx)
	ok, err := p.temp.Exists(ctx, relPath)
	if err != nil {
		p.logger.Printf("temp cleanup stat failed temp_path=%s err=%v", relPath, err)
		return
	}
	if !ok {
		return
	}
	if err := p.temp.Remove(ctx, relPath); err != nil {
		p.logger.Printf("temp cleanup failed temp_path=%s err=%v", relPath, err)
		return
	}
	p.logger.Printf("temp source removed temp_path=%s", relPath)
}
