package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/media"
)

// ErrNoSpeech is returned by recognizers when the service processed the audio
// but found nothing it could transcribe.
var ErrNoSpeech = errors.New("no speech detected")

// Audio is one complete waveform payload.
type Audio struct {
	Data       []byte
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// wavHeaderSize is the header length of the canonical PCM WAV files the
// media package writes.
const wavHeaderSize = 44

// Length is the measured Duration, or an estimate from the payload size
// assuming 16-bit PCM behind a canonical header.
func (a Audio) Length() time.Duration {
	if a.Duration > 0 {
		return a.Duration
	}
	byteRate := a.SampleRate * a.Channels * 2
	pcm := len(a.Data) - wavHeaderSize
	if byteRate <= 0 || pcm <= 0 {
		return 0
	}
	return time.Duration(float64(pcm) / float64(byteRate) * float64(time.Second))
}

// Recognizer is an external speech-to-text service.
type Recognizer interface {
	Recognize(ctx context.Context, audio Audio, language string) (string, error)
	Name() string
}

// Adapter maps recognizer outcomes onto Result.
type Adapter struct {
	recognizer Recognizer
	language   string
	timeout    time.Duration
	readFile   func(name string) ([]byte, error)
	log        *logger.Logger
}

// NewAdapter wraps a recognizer with a fixed language tag. A zero timeout
// leaves the deadline to the caller's context.
func NewAdapter(r Recognizer, language string, timeout time.Duration, log *logger.Logger) *Adapter {
	return &Adapter{
		recognizer: r,
		language:   language,
		timeout:    timeout,
		readFile:   os.ReadFile,
		log: log.Component("transcription").With(logrus.Fields{
			"backend":  r.Name(),
			"language": language,
		}),
	}
}

// Transcribe reads the whole waveform and sends it to the recognizer.
func (a *Adapter) Transcribe(ctx context.Context, wf media.Waveform) Result {
	data, err := a.readFile(wf.Path)
	if err != nil {
		return Failed(ServiceUnavailable, fmt.Sprintf("read waveform: %v", err))
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.recognizer.Recognize(ctx, Audio{
		Data:       data,
		SampleRate: wf.SampleRate,
		Channels:   wf.Channels,
		Duration:   wf.Duration,
	}, a.language)
	log := a.log.WithField("bytes", len(data)).WithField("elapsed_ms", time.Since(start).Milliseconds())

	switch {
	case errors.Is(err, ErrNoSpeech):
		log.Info("recognizer found no speech")
		return Text("")
	case err != nil:
		log.WithField("error", err.Error()).Warn("recognizer failed")
		return Failed(ServiceUnavailable, err.Error())
	}

	text = strings.TrimSpace(text)
	log.WithField("chars", len(text)).Info("transcript received")
	return Text(text)
}
