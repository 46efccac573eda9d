package media

import (
	"context"
	"errors"

	"speech-pace-go/internal/logger"
)

// ErrExtractionFailed covers unreadable containers, missing audio tracks and
// codec errors.
var ErrExtractionFailed = errors.New("audio extraction failed")

// Extractor decodes the audio track of a video container into a canonical waveform.
type Extractor struct {
	transcoder
}

// NewExtractor constructs an extractor that shells out to ffmpegPath.
func NewExtractor(ffmpegPath string, sampleRate int, log *logger.Logger) *Extractor {
	return &Extractor{transcoder: newTranscoder(ffmpegPath, sampleRate, log.Component("media.extractor"))}
}

// Extract writes the first audio stream of videoPath to outPath. The returned
// duration is measured from the decoded PCM, not the container header.
func (e *Extractor) Extract(ctx context.Context, videoPath, outPath string) (Waveform, error) {
	if err := ctx.Err(); err != nil {
		return Waveform{}, &CommandError{Op: "extract", Err: errors.Join(ErrExtractionFailed, err)}
	}
	return e.run(ctx, "extract", ErrExtractionFailed, e.args(videoPath, outPath), outPath)
}

func (e *Extractor) args(videoPath, outPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-vn",
		// fails when the container has no audio stream
		"-map", "0:a:0",
	}
	return append(args, e.pcmArgs(outPath)...)
}
