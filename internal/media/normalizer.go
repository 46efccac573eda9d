package media

import (
	"context"
	"errors"
	"fmt"

	"speech-pace-go/internal/logger"
)

// ErrConversionFailed covers transcode failures of accepted audio input.
var ErrConversionFailed = errors.New("audio conversion failed")

// Normalizer converts compressed audio to the canonical waveform and passes
// waveform input through untouched.
type Normalizer struct {
	transcoder
}

// NewNormalizer constructs a normalizer that shells out to ffmpegPath.
func NewNormalizer(ffmpegPath string, sampleRate int, log *logger.Logger) *Normalizer {
	return &Normalizer{transcoder: newTranscoder(ffmpegPath, sampleRate, log.Component("media.normalizer"))}
}

// Normalize returns a canonical waveform for srcPath. For KindWaveform the
// result points at srcPath itself and outPath is never written. srcPath is
// never modified or removed.
func (n *Normalizer) Normalize(ctx context.Context, kind Kind, srcPath, outPath string) (Waveform, error) {
	if err := ctx.Err(); err != nil {
		return Waveform{}, &CommandError{Op: "convert", Err: errors.Join(ErrConversionFailed, err)}
	}
	switch kind {
	case KindWaveform:
		wf, err := Probe(srcPath)
		if err != nil {
			return Waveform{}, &CommandError{Op: "convert", Err: fmt.Errorf("%w: %v", ErrConversionFailed, err)}
		}
		return wf, nil
	case KindCompressedAudio:
		return n.run(ctx, "convert", ErrConversionFailed, n.args(srcPath, outPath), outPath)
	default:
		return Waveform{}, &CommandError{Op: "convert", Err: fmt.Errorf("%w: cannot normalize %s input", ErrConversionFailed, kind)}
	}
}

func (n *Normalizer) args(srcPath, outPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", srcPath,
		"-vn",
	}
	return append(args, n.pcmArgs(outPath)...)
}
