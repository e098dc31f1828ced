package queue

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func TestProcessUploadTaskRoundTrip(t *testing.T) {
	payload := ProcessUploadPayload{
		TempPath:          "uploads/3f2a.jpg",
		CollectionID:      12,
		OriginalFileName:  "Sunset Beach.jpg",
		WatermarkSelector: "studio.png",
		EnqueuedAt:        time.Now().UTC(),
	}

	task, err := NewProcessUploadTask(payload)
	if err != nil {
		t.Fatalf("NewProcessUploadTask returned error: %v", err)
	}
	if task.Type() != TypeProcessUpload {
		t.Fatalf("task type %q", task.Type())
	}

	parsed, err := ParseProcessUploadPayload(task)
	if err != nil {
		t.Fatalf("ParseProcessUploadPayload returned error: %v", err)
	}
	if parsed.TempPath != payload.TempPath {
		t.Fatalf("temp_path %q, want %q", parsed.TempPath, payload.TempPath)
	}
	if parsed.CollectionID != 12 || parsed.WatermarkSelector != "studio.png" {
		t.Fatalf("unexpected parsed payload %+v", parsed)
	}
}

func TestProcessUploadPayloadValidate(t *testing.T) {
	cases := []struct {
		name    string
		payload ProcessUploadPayload
		wantErr bool
	}{
		{
			"valid without watermark",
			ProcessUploadPayload{TempPath: "uploads/a.jpg", CollectionID: 1, OriginalFileName: "a.jpg"},
			false,
		},
		{
			"missing temp path",
			ProcessUploadPayload{CollectionID: 1, OriginalFileName: "a.jpg"},
			true,
		},
		{
			"zero collection",
			ProcessUploadPayload{TempPath: "uploads/a.jpg", OriginalFileName: "a.jpg"},
			true,
		},
		{
			"negative collection",
			ProcessUploadPayload{TempPath: "uploads/a.jpg", CollectionID: -3, OriginalFileName: "a.jpg"},
			true,
		},
		{
			"missing file name",
			ProcessUploadPayload{TempPath: "uploads/a.jpg", CollectionID: 1},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr=%t", err, tc.wantErr)
			}
		})
	}
}

func TestParseRejectsMalformedPayload(t *testing.T) {
	task := asynq.NewTask(TypeProcessUpload, []byte("{not json"))
	if _, err := ParseProcessUploadPayload(task); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
