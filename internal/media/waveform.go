package media

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// Waveform is a canonical PCM WAV file with its measured length.
type Waveform struct {
	Path       string
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// Minutes is the waveform length in minutes.
func (w Waveform) Minutes() float64 {
	return w.Duration.Minutes()
}

// Probe opens a WAV file and measures its duration from the PCM data chunk.
// The RIFF size and any container metadata are ignored.
func Probe(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("open waveform: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Waveform{}, fmt.Errorf("%s: invalid wav file", path)
	}
	if err := d.FwdToPCM(); err != nil {
		return Waveform{}, fmt.Errorf("%s: locate pcm data: %w", path, err)
	}

	bytesPerSec := int64(d.SampleRate) * int64(d.NumChans) * int64(d.BitDepth/8)
	if bytesPerSec <= 0 {
		return Waveform{}, fmt.Errorf("%s: invalid wav format (rate=%d chans=%d depth=%d)", path, d.SampleRate, d.NumChans, d.BitDepth)
	}
	seconds := float64(d.PCMLen()) / float64(bytesPerSec)

	return Waveform{
		Path:       path,
		Duration:   time.Duration(seconds * float64(time.Second)),
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
	}, nil
}
