// Package mediatest writes WAV fixtures for tests.
package mediatest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes a silent mono 16-bit PCM file of the given length.
func WriteWAV(tb testing.TB, path string, sampleRate int, length time.Duration) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	frames := int(length.Seconds() * float64(sampleRate))
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("close encoder %s: %v", path, err)
	}
}

// WAVBytes writes a fixture into a temp dir and returns its contents.
func WAVBytes(tb testing.TB, sampleRate int, length time.Duration) []byte {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "fixture.wav")
	WriteWAV(tb, path, sampleRate, length)
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}
	return data
}
