package batch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"speech-pace-go/internal/aggregator"
	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/types"
)

type stubProcessor struct {
	seen []string
}

func (s *stubProcessor) ProcessReader(ctx context.Context, body io.Reader, filename string) (types.SubmissionResult, error) {
	s.seen = append(s.seen, filename)
	if filepath.Ext(filename) == ".txt" {
		return types.SubmissionResult{Filename: filename, Status: types.StatusClientError, ErrorKind: "unsupported_format"}, errors.New("unsupported")
	}
	data, _ := io.ReadAll(body)
	return types.SubmissionResult{Filename: filename, Status: types.StatusOK, Transcript: string(data), WordCount: 1, WPM: 2}, nil
}

func TestRunProcessesEveryRow(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	note := filepath.Join(dir, "note.txt")
	for _, p := range []string{clip, note} {
		if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	records := []types.ManifestRecord{
		{Row: 2, Path: clip},
		{Row: 3, Path: filepath.Join(dir, "missing.mp4")},
		{Row: 4, Path: note},
	}

	stub := &stubProcessor{}
	out := Run(context.Background(), stub, records, logger.Discard())
	if len(out) != 3 {
		t.Fatalf("records = %d, want 3", len(out))
	}
	if out[0].Status != types.StatusOK || out[0].Transcript != "hi" || out[0].Row != 2 {
		t.Fatalf("row 2 = %+v", out[0])
	}
	if out[1].Status != types.StatusClientError || out[1].ErrorKind != KindUnreadableInput || out[1].Error == "" {
		t.Fatalf("missing file row = %+v", out[1])
	}
	if out[2].ErrorKind != "unsupported_format" {
		t.Fatalf("row 4 = %+v", out[2])
	}
	if len(stub.seen) != 2 || stub.seen[0] != "clip.mp4" {
		t.Fatalf("processor saw %v", stub.seen)
	}
	if len(Results(out)) != 3 {
		t.Fatal("Results should mirror records")
	}
	sum := aggregator.Aggregate(Results(out))
	if sum.ClientErrors != 2 || sum.ByErrorKind[KindUnreadableInput] != 1 || sum.ByErrorKind["unsupported_format"] != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Run(ctx, &stubProcessor{}, []types.ManifestRecord{{Row: 2, Path: "a.mp4"}}, logger.Discard())
	if len(out) != 0 {
		t.Fatalf("records = %d, want 0", len(out))
	}
}
