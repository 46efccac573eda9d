package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"speech-pace-go/internal/logger"
)

func TestScopeReleaseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.mp4")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	calls := 0
	s := newScope("run", func(p string) error {
		calls++
		return os.Remove(p)
	}, logger.Discard())
	s.Track(a)
	s.Track(b)
	s.Track(a)

	if got := s.Tracked(); len(got) != 2 {
		t.Fatalf("tracked = %v, want 2 unique paths", got)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("remove calls = %d, want 2", calls)
	}
	for _, p := range []string{a, b} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s still exists", p)
		}
	}
}

func TestScopeToleratesMissingFiles(t *testing.T) {
	s := newScope("run", nil, logger.Discard())
	s.Track(filepath.Join(t.TempDir(), "never-created.wav"))
	s.Track("")
	if err := s.Release(); err != nil {
		t.Fatalf("Release() error = %v, want nil for already-gone file", err)
	}
}

func TestScopeReportsOtherErrors(t *testing.T) {
	s := newScope("run", func(string) error { return os.ErrPermission }, logger.Discard())
	s.Track("/locked.wav")
	if err := s.Release(); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("Release() error = %v, want ErrPermission", err)
	}
}
