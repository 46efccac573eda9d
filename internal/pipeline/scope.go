package pipeline

import (
	"errors"
	"fmt"
	"os"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/metrics"
)

// Scope owns every temporary file of one run and deletes each at most once.
type Scope struct {
	runID    string
	paths    []string
	seen     map[string]bool
	released bool
	remove   func(path string) error
	log      *logger.Logger
}

func newScope(runID string, remove func(string) error, log *logger.Logger) *Scope {
	if remove == nil {
		remove = os.Remove
	}
	return &Scope{
		runID:  runID,
		seen:   map[string]bool{},
		remove: remove,
		log:    log,
	}
}

// Track registers path for deletion. Registering a path twice is a no-op.
func (s *Scope) Track(path string) {
	if path == "" || s.seen[path] {
		return
	}
	s.seen[path] = true
	s.paths = append(s.paths, path)
}

// Tracked returns the registered paths in registration order.
func (s *Scope) Tracked() []string {
	return append([]string(nil), s.paths...)
}

// Release deletes all tracked paths, newest first. Missing files are not
// errors. Calling Release again does nothing.
func (s *Scope) Release() error {
	if s.released {
		return nil
	}
	s.released = true

	var errs []error
	for i := len(s.paths) - 1; i >= 0; i-- {
		p := s.paths[i]
		if err := s.remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			metrics.CleanupErrors.Inc()
			s.log.WithError(err).WithField("path", p).Warn("failed to remove temporary file")
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
			continue
		}
		s.log.WithField("path", p).Debug("temporary file released")
	}
	return errors.Join(errs...)
}
