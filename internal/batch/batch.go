// Package batch runs a manifest of local media files through the pipeline.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/types"
)

// KindUnreadableInput marks manifest rows whose file could not be opened.
const KindUnreadableInput = "unreadable_input"

// SubmissionProcessor runs one file through the pipeline.
type SubmissionProcessor interface {
	ProcessReader(ctx context.Context, body io.Reader, filename string) (types.SubmissionResult, error)
}

// Run processes records one at a time. A missing or unreadable file is
// reported as a client error on its row and does not stop the batch.
func Run(ctx context.Context, proc SubmissionProcessor, records []types.ManifestRecord, log *logger.Logger) []types.BatchRecord {
	log = log.Component("batch")
	out := make([]types.BatchRecord, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			log.WithError(err).WithField("remaining", len(records)-i).Warn("batch interrupted")
			break
		}
		res := processOne(ctx, proc, rec)
		log.WithField("row", rec.Row).WithField("file", rec.Path).WithField("status", res.Status).WithField("wpm", res.WPM).Info("batch row processed")
		out = append(out, types.BatchRecord{ManifestRecord: rec, SubmissionResult: res})
	}
	return out
}

func processOne(ctx context.Context, proc SubmissionProcessor, rec types.ManifestRecord) types.SubmissionResult {
	name := filepath.Base(rec.Path)
	f, err := os.Open(rec.Path)
	if err != nil {
		return types.SubmissionResult{
			Filename:  name,
			Status:    types.StatusClientError,
			ErrorKind: KindUnreadableInput,
			Error:     fmt.Sprintf("read file: %v", err),
		}
	}
	defer f.Close()

	// the result already carries status and message on failure
	res, _ := proc.ProcessReader(ctx, f, name)
	return res
}

// Results extracts the submission results for aggregation.
func Results(records []types.BatchRecord) []types.SubmissionResult {
	out := make([]types.SubmissionResult, len(records))
	for i, r := range records {
		out[i] = r.SubmissionResult
	}
	return out
}
