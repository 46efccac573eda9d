package aggregator

import (
	"speech-pace-go/internal/rate"
	"speech-pace-go/internal/types"
)

// Summary describes a batch of processed submissions.
type Summary struct {
	Total        int            `json:"total"`
	Succeeded    int            `json:"succeeded"`
	ClientErrors int            `json:"client_errors"`
	ServerErrors int            `json:"server_errors"`
	Silent       int            `json:"silent"`
	ByErrorKind  map[string]int `json:"by_error_kind"`
	AudioSeconds float64        `json:"audio_seconds"`
	MeanWPM      float64        `json:"mean_wpm"`
	OverallWPM   float64        `json:"overall_wpm"`
}

// Aggregate summarizes results. MeanWPM averages per-file rates of
// successful runs; OverallWPM divides all words by all audio.
func Aggregate(records []types.SubmissionResult) Summary {
	s := Summary{Total: len(records), ByErrorKind: map[string]int{}}
	words := 0
	wpmSum := 0.0
	for _, r := range records {
		switch r.Status {
		case types.StatusOK:
			s.Succeeded++
			s.AudioSeconds += r.AudioSeconds
			words += r.WordCount
			wpmSum += r.WPM
			if r.WordCount == 0 {
				s.Silent++
			}
			continue
		case types.StatusClientError:
			s.ClientErrors++
		default:
			s.ServerErrors++
		}
		if r.ErrorKind != "" {
			s.ByErrorKind[r.ErrorKind]++
		}
	}
	if s.Succeeded > 0 {
		s.MeanWPM = rate.Round(wpmSum/float64(s.Succeeded), 2)
	}
	if s.AudioSeconds > 0 {
		s.OverallWPM = rate.Round(float64(words)/(s.AudioSeconds/60), 2)
	}
	s.AudioSeconds = rate.Round(s.AudioSeconds, 3)
	return s
}
