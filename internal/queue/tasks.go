package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

const TypeProcessUpload = "upload:process"

// ProcessUploadPayload is the job contract between the upload intake and
// this pipeline. The intake must have placed the raw upload at TempPath
// before enqueueing and must never reuse a TempPath across jobs.
// An empty WatermarkSelector means no watermark is requested.
type ProcessUploadPayload struct {
	TempPath          string    `json:"temp_path"`
	CollectionID      int64     `json:"collection_id"`
	OriginalFileName  string    `json:"original_file_name"`
	WatermarkSelector string    `json:"watermark_selector,omitempty"`
	EnqueuedAt        time.Time `json:"enqueued_at,omitempty"`
}

func (p ProcessUploadPayload) Validate() error {
	if strings.TrimSpace(p.TempPath) == "" {
		return errors.New("temp_path is required")
	}
	if p.CollectionID <= 0 {
		return fmt.Errorf("collection_id must be positive, got %d", p.CollectionID)
	}
	if strings.TrimSpace(p.OriginalFileName) == "" {
		return errors.New("original_file_name is required")
	}
	return nil
}

func NewProcessUploadTask(payload ProcessUploadPayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("validate upload payload: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal upload payload: %w", err)
	}
	return asynq.NewTask(TypeProcessUpload, body), nil
}

func ParseProcessUploadPayload(task *asynq.Task) (ProcessUploadPayload, error) {
	var payload ProcessUploadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProcessUploadPayload{}, fmt.Errorf("unmarshal upload payload: %w", err)
	}
	if err := payload.Validate(); err != nil {
		return ProcessUploadPayload{}, err
	}
	return payload, nil
}
