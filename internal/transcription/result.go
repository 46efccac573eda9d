package transcription

import "fmt"

// FailureKind classifies a failed transcription.
type FailureKind string

const (
	// ServiceUnavailable covers unreachable services, rejected requests,
	// quota errors, malformed payloads and timeouts.
	ServiceUnavailable FailureKind = "service_unavailable"
)

// Failure describes why the recognizer produced no transcript.
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// Result is either a transcript (possibly empty, meaning no speech was
// detected) or a Failure. The zero value is an empty transcript.
type Result struct {
	text    string
	failure *Failure
}

// Text builds a successful result.
func Text(s string) Result {
	return Result{text: s}
}

// Failed builds a failed result.
func Failed(kind FailureKind, detail string) Result {
	return Result{failure: &Failure{Kind: kind, Detail: detail}}
}

// IsFailure reports whether the recognizer failed.
func (r Result) IsFailure() bool {
	return r.failure != nil
}

// Transcript is the recognized text; empty for failures and for silence.
func (r Result) Transcript() string {
	return r.text
}

// Failure returns the failure and true when the result failed.
func (r Result) Failure() (Failure, bool) {
	if r.failure == nil {
		return Failure{}, false
	}
	return *r.failure, true
}

func (r Result) String() string {
	if f, ok := r.Failure(); ok {
		return "Failure(" + f.Error() + ")"
	}
	return fmt.Sprintf("Text(%q)", r.text)
}
