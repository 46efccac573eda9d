// Package pipeline turns one media submission into a transcript and a
// words-per-minute score.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/media"
	"speech-pace-go/internal/metrics"
	"speech-pace-go/internal/rate"
	"speech-pace-go/internal/transcription"
)

// State is a step of a pipeline run.
type State string

const (
	StateReceived    State = "received"
	StateClassified  State = "classified"
	StateAudioReady  State = "audio_ready"
	StateTranscribed State = "transcribed"
	StateScored      State = "scored"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Extractor pulls the audio track out of a video container.
type Extractor interface {
	Extract(ctx context.Context, videoPath, outPath string) (media.Waveform, error)
}

// Normalizer converts audio input into the canonical waveform.
type Normalizer interface {
	Normalize(ctx context.Context, kind media.Kind, srcPath, outPath string) (media.Waveform, error)
}

// Transcriber turns a waveform into a transcript result.
type Transcriber interface {
	Transcribe(ctx context.Context, wf media.Waveform) transcription.Result
}

// Submission is one uploaded file.
type Submission struct {
	Filename string
	Body     io.Reader
}

// Outcome is the result of a successful run.
type Outcome struct {
	RunID           string
	Filename        string
	Kind            media.Kind
	Transcript      string
	WordCount       int
	DurationSeconds float64
	WPM             float64
	Trace           []State
}

// Options configures a Pipeline.
type Options struct {
	UploadDir   string
	WorkDir     string
	Extractor   Extractor
	Normalizer  Normalizer
	Transcriber Transcriber
	Logger      *logger.Logger
}

// Pipeline sequences classification, audio preparation, transcription and
// scoring for one submission at a time per call. Runs share no state besides
// the upload and work directories, where every file name carries the run ID.
type Pipeline struct {
	uploadDir   string
	workDir     string
	extractor   Extractor
	normalizer  Normalizer
	transcriber Transcriber
	log         *logger.Logger

	newRunID func() string
	remove   func(path string) error
	create   func(name string) (*os.File, error)
}

// New validates options and ensures the working directories exist.
func New(opts Options) (*Pipeline, error) {
	if opts.Extractor == nil || opts.Normalizer == nil || opts.Transcriber == nil {
		return nil, errors.New("pipeline: extractor, normalizer and transcriber are required")
	}
	if strings.TrimSpace(opts.UploadDir) == "" || strings.TrimSpace(opts.WorkDir) == "" {
		return nil, errors.New("pipeline: upload and work directories are required")
	}
	for _, dir := range []string{opts.UploadDir, opts.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("pipeline: ensure %s: %w", dir, err)
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.New()
	}
	return &Pipeline{
		uploadDir:   opts.UploadDir,
		workDir:     opts.WorkDir,
		extractor:   opts.Extractor,
		normalizer:  opts.Normalizer,
		transcriber: opts.Transcriber,
		log:         log.Component("pipeline"),
		newRunID:    uuid.NewString,
		remove:      os.Remove,
		create:      os.Create,
	}, nil
}

// run carries the mutable state of one Run call.
type run struct {
	id    string
	state State
	trace []State
	log   *logrus.Entry
	since time.Time
}

func (r *run) enter(s State) {
	metrics.ObserveStage(string(r.state), time.Since(r.since))
	r.log.WithField("from", r.state).WithField("to", s).Debug("stage transition")
	r.state = s
	r.since = time.Now()
	r.trace = append(r.trace, s)
}

func (r *run) fail(kind Kind, msg string, err error) *Error {
	e := &Error{Kind: kind, Class: classOf(kind), Stage: r.state, Message: msg, Err: err}
	r.enter(StateFailed)
	return e
}

// Run processes one submission. Every file the run creates, and the stored
// upload itself, is deleted before Run returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, sub Submission) (out Outcome, err error) {
	r := &run{
		id:    p.newRunID(),
		state: StateReceived,
		trace: []State{StateReceived},
		since: time.Now(),
	}
	r.log = p.log.WithFields(logrus.Fields{"run_id": r.id, "filename": sub.Filename})
	started := time.Now()

	defer func() {
		outcome, kind := "success", ""
		var pErr *Error
		if errors.As(err, &pErr) {
			outcome, kind = string(pErr.Class)+"_error", string(pErr.Kind)
			r.log.WithField("kind", pErr.Kind).WithField("stage", pErr.Stage).WithField("error", err.Error()).Warn("pipeline run failed")
		}
		metrics.Submissions.WithLabelValues(outcome, kind).Inc()
		r.log.WithField("elapsed_ms", time.Since(started).Milliseconds()).Info("pipeline run finished")
	}()

	kind, cerr := media.Classify(sub.Filename)
	if cerr != nil {
		return Outcome{}, r.fail(KindUnsupportedFormat, "unsupported file format", cerr)
	}
	r.enter(StateClassified)
	r.log = r.log.WithField("kind", kind.String())

	scope := newScope(r.id, p.remove, &logger.Logger{Entry: r.log})
	defer scope.Release()

	srcPath := filepath.Join(p.uploadDir, r.id+"-"+safeBase(sub.Filename))
	scope.Track(srcPath)
	if err := p.store(ctx, srcPath, sub.Body); err != nil {
		return Outcome{}, r.fail(KindStorageFailed, "could not store upload", err)
	}

	wavPath := filepath.Join(p.workDir, r.id+".wav")
	scope.Track(wavPath)

	var wf media.Waveform
	switch kind {
	case media.KindVideo:
		wf, err = p.extractor.Extract(ctx, srcPath, wavPath)
		if err != nil {
			return Outcome{}, r.fail(KindExtractionFailed, "could not extract audio from video", err)
		}
	default:
		wf, err = p.normalizer.Normalize(ctx, kind, srcPath, wavPath)
		if err != nil {
			return Outcome{}, r.fail(KindConversionFailed, "could not convert audio", err)
		}
	}
	scope.Track(wf.Path)
	r.enter(StateAudioReady)
	metrics.AudioDuration.Observe(wf.Duration.Seconds())
	r.log.WithField("audio_seconds", wf.Duration.Seconds()).Info("audio ready")

	res := p.transcriber.Transcribe(ctx, wf)
	if f, failed := res.Failure(); failed {
		return Outcome{}, r.fail(KindServiceUnavailable, "speech recognition service unavailable", f)
	}
	r.enter(StateTranscribed)

	text := res.Transcript()
	wpm := rate.WordsPerMinute(text, wf.Minutes())
	r.enter(StateScored)
	metrics.WordsPerMinute.Observe(wpm)

	out = Outcome{
		RunID:           r.id,
		Filename:        sub.Filename,
		Kind:            kind,
		Transcript:      text,
		WordCount:       rate.WordCount(text),
		DurationSeconds: wf.Duration.Seconds(),
		WPM:             wpm,
	}
	r.enter(StateDone)
	out.Trace = r.trace
	r.log.WithField("words", out.WordCount).WithField("wpm", wpm).Info("pipeline scored submission")
	return out, nil
}

// store writes body to path and closes it before returning.
func (p *Pipeline) store(ctx context.Context, path string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if body == nil {
		return errors.New("empty submission body")
	}
	f, err := p.create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// safeBase strips directories and anything outside a conservative charset.
func safeBase(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}
