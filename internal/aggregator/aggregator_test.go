package aggregator

import (
	"testing"

	"speech-pace-go/internal/types"
)

func TestAggregate(t *testing.T) {
	records := []types.SubmissionResult{
		{Status: types.StatusOK, WordCount: 3, AudioSeconds: 120, WPM: 1.5},
		{Status: types.StatusOK, WordCount: 0, AudioSeconds: 60, WPM: 0},
		{Status: types.StatusClientError, ErrorKind: "unsupported_format"},
		{Status: types.StatusServerError, ErrorKind: "service_unavailable"},
		{Status: types.StatusServerError, ErrorKind: "service_unavailable"},
	}
	s := Aggregate(records)
	if s.Total != 5 || s.Succeeded != 2 || s.ClientErrors != 1 || s.ServerErrors != 2 || s.Silent != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.ByErrorKind["service_unavailable"] != 2 || s.ByErrorKind["unsupported_format"] != 1 {
		t.Fatalf("by kind = %v", s.ByErrorKind)
	}
	if s.MeanWPM != 0.75 {
		t.Fatalf("mean wpm = %v, want 0.75", s.MeanWPM)
	}
	if s.OverallWPM != 1 {
		t.Fatalf("overall wpm = %v, want 1", s.OverallWPM)
	}
	if s.AudioSeconds != 180 {
		t.Fatalf("audio seconds = %v", s.AudioSeconds)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.Total != 0 || s.MeanWPM != 0 || s.OverallWPM != 0 {
		t.Fatalf("summary = %+v", s)
	}
}
