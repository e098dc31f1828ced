package domain

import "time"

const (
	// Terminal outcomes of one pipeline job.
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Collection is the gallery/album that owns uploaded images. The pipeline
// only ever checks that the target collection still exists; it never
// creates or mutates one.
type Collection struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Metadata is the structured map persisted with each DerivativeSet.
// WatermarkedPath and WatermarkFileUsed are nil when no watermark was
// composited.
type Metadata struct {
	OriginalWidth     int     `json:"original_width"`
	OriginalHeight    int     `json:"original_height"`
	FinalWidth        int     `json:"final_width"`
	FinalHeight       int     `json:"final_height"`
	FileSize          int64   `json:"file_size"`
	MimeType          string  `json:"mime_type"`
	WatermarkedPath   *string `json:"watermarked_path"`
	WatermarkFileUsed *string `json:"watermark_file_used"`
}

// DerivativeSet is the catalog record for one successfully processed
// upload. It is created exactly once, after every artifact write for the
// job has succeeded, and is never mutated by the pipeline afterwards.
type DerivativeSet struct {
	ID               int64
	CollectionID     int64
	OriginalFileName string
	PathOriginal     string
	PathThumb        string
	WatermarkApplied bool
	Metadata         Metadata
	CreatedAt        time.Time
}
