package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults of the file sink.
const (
	DefaultLogFile   = "app.log"
	DefaultMaxSizeMB = 10
	logDirPerm       = 0o755
)

// Sink is a destination for rendered log lines.
type Sink interface {
	io.Writer
	io.Closer
}

// consoleSink writes to a stream it does not own; closing it leaves the
// stream open.
type consoleSink struct {
	w io.Writer
}

// NewConsoleSink returns a sink writing to w. A nil w means os.Stdout.
func NewConsoleSink(w io.Writer) Sink {
	if w == nil {
		w = os.Stdout
	}
	return consoleSink{w: w}
}

func (s consoleSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s consoleSink) Close() error {
	if f, ok := s.w.(*os.File); ok {
		// Sync fails on terminals and pipes; there is nothing to flush there.
		_ = f.Sync()
	}
	return nil
}

// NewFileSink returns a sink appending to dir/file, rotating the file once it
// exceeds maxSizeMB megabytes and keeping at most backups old generations.
// backups == 0 keeps every generation.
func NewFileSink(dir, file string, maxSizeMB, backups int) (Sink, error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if backups < 0 {
		return nil, fmt.Errorf("invalid backup count %d", backups)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, file),
		MaxSize:    maxSizeMB,
		MaxBackups: backups,
	}, nil
}

// sinkSet fans every line out to all sinks. Writes are serialized so lines of
// concurrent records never interleave within a sink.
type sinkSet struct {
	mu     sync.Mutex
	sinks  []Sink
	closed bool
}

func (s *sinkSet) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return len(p), nil
	}

	var errs []error
	for _, sink := range s.sinks {
		if _, err := sink.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return len(p), errors.Join(errs...)
}

// close closes every sink once and drops later writes.
func (s *sinkSet) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.sinks = nil
	return errors.Join(errs...)
}
