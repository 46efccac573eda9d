package types

// Submission statuses.
const (
	StatusOK          = "ok"
	StatusClientError = "client_error"
	StatusServerError = "server_error"
)

// SubmissionResult is the caller-facing result of one processed file.
type SubmissionResult struct {
	RunID        string  `json:"run_id,omitempty"`
	Filename     string  `json:"filename"`
	Status       string  `json:"status"`
	MediaKind    string  `json:"media_kind,omitempty"`
	Transcript   string  `json:"transcript"`
	WordCount    int     `json:"word_count"`
	AudioSeconds float64 `json:"audio_seconds"`
	WPM          float64 `json:"wpm"`
	DurationMs   int64   `json:"duration_ms"`
	ErrorKind    string  `json:"error_kind,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// OK reports whether the submission was scored.
func (r SubmissionResult) OK() bool {
	return r.Status == StatusOK
}

// ManifestRecord is one row of a batch manifest.
type ManifestRecord struct {
	Row   int    `json:"row"`
	Label string `json:"label,omitempty"`
	Path  string `json:"path"`
}

// BatchRecord pairs a manifest row with its result.
type BatchRecord struct {
	ManifestRecord
	SubmissionResult
}
