package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/media"
	"speech-pace-go/internal/pipeline"
	"speech-pace-go/internal/rate"
	"speech-pace-go/internal/types"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, sub pipeline.Submission) (pipeline.Outcome, error)
}

// Processor is the entry point shared by the HTTP and batch front ends.
type Processor struct {
	runner Runner
	log    *logger.Logger
}

// New wraps a pipeline runner.
func New(r Runner, log *logger.Logger) *Processor {
	return &Processor{runner: r, log: log.Component("processor")}
}

// ProcessSubmission runs data through the pipeline under filename.
func (p *Processor) ProcessSubmission(ctx context.Context, data []byte, filename string) (types.SubmissionResult, error) {
	return p.ProcessReader(ctx, bytes.NewReader(data), filename)
}

// ProcessReader is ProcessSubmission for a streamed body.
func (p *Processor) ProcessReader(ctx context.Context, body io.Reader, filename string) (types.SubmissionResult, error) {
	start := time.Now()
	res := types.SubmissionResult{Filename: filename}

	out, err := p.runner.Run(ctx, pipeline.Submission{Filename: filename, Body: body})
	res.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		res.Status, res.ErrorKind, res.Error = describe(err)
		p.log.WithError(err).WithField("filename", filename).WithField("status", res.Status).Warn("submission failed")
		return res, err
	}

	res.RunID = out.RunID
	res.Status = types.StatusOK
	res.MediaKind = out.Kind.String()
	res.Transcript = out.Transcript
	res.WordCount = out.WordCount
	res.AudioSeconds = rate.Round(out.DurationSeconds, 3)
	res.WPM = rate.Round(out.WPM, 2)
	return res, nil
}

// StatusCode maps a ProcessSubmission error to an HTTP status.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var pErr *pipeline.Error
	if errors.As(err, &pErr) {
		return pErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// describe turns a pipeline error into status, kind and a user-facing message.
func describe(err error) (status, kind, msg string) {
	var pErr *pipeline.Error
	if !errors.As(err, &pErr) {
		return types.StatusServerError, "", "internal error"
	}
	switch pErr.Kind {
	case pipeline.KindUnsupportedFormat:
		msg = fmt.Sprintf("Invalid file format. Only %s files are allowed.", media.AcceptedSuffixes())
	case pipeline.KindServiceUnavailable:
		msg = fmt.Sprintf("Error with speech recognition service: %v", pErr.Err)
	default:
		msg = pErr.Message
	}
	if pErr.Class == pipeline.ClassClient {
		return types.StatusClientError, string(pErr.Kind), msg
	}
	return types.StatusServerError, string(pErr.Kind), msg
}
