package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"speech-pace-go/internal/logger"
)

// transcoder runs ffmpeg to produce a canonical waveform and probes the result.
type transcoder struct {
	ffmpegPath string
	sampleRate int
	runner     commandRunner
	log        *logger.Logger
}

func newTranscoder(ffmpegPath string, sampleRate int, log *logger.Logger) transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return transcoder{
		ffmpegPath: ffmpegPath,
		sampleRate: sampleRate,
		runner:     &execRunner{},
		log:        log,
	}
}

// run writes outPath from src. The returned error wraps sentinel. outPath
// belongs to the caller, which removes it whether or not the run succeeded.
func (t transcoder) run(ctx context.Context, op string, sentinel error, args []string, outPath string) (Waveform, error) {
	res, runErr := t.runner.Run(ctx, t.ffmpegPath, args...)
	cmdLog := CommandLog{
		Command:  t.ffmpegPath,
		Args:     args,
		ExitCode: res.ExitCode,
		Stderr:   lastLines(res.Stderr, 8),
	}
	t.log.WithField("exit_code", res.ExitCode).WithField("out", outPath).Debug(op + " finished")

	if runErr != nil {
		return Waveform{}, &CommandError{Op: op, Log: cmdLog, Err: fmt.Errorf("%w: %v", sentinel, runErr)}
	}

	wf, err := Probe(outPath)
	if err != nil {
		return Waveform{}, &CommandError{Op: op, Log: cmdLog, Err: fmt.Errorf("%w: %v", sentinel, err)}
	}
	return wf, nil
}

// pcmArgs are the output options for mono 16-bit PCM at the configured rate.
func (t transcoder) pcmArgs(outPath string) []string {
	return []string{
		"-ac", "1",
		"-ar", strconv.Itoa(t.sampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outPath,
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
