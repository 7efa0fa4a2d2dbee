package build

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

const (
	// DefaultMaxLogFiles is the default maximum number of rotated log
	// files to keep on disk.
	DefaultMaxLogFiles = 10

	// DefaultMaxLogFileSize is the default maximum log file size in MB
	// before rotation occurs.
	DefaultMaxLogFileSize = 20

	// DefaultLogFilename is the log file name used when the config does
	// not name one.
	DefaultLogFilename = "actorwired.log"
)

// LogRotatorConfig shapes one RotatingLogWriter: where the file lives, how
// big it may grow, and how many compressed predecessors to keep.
type LogRotatorConfig struct {
	// LogDir is the directory where log files are written.
	LogDir string

	// MaxLogFiles is the maximum number of rotated log files to keep.
	// Zero disables rotation (single file, unbounded growth).
	MaxLogFiles int

	// MaxLogFileSize is the maximum size of the live log file in
	// megabytes before it is rotated out.
	MaxLogFileSize int

	// Filename overrides DefaultLogFilename.
	Filename string
}

// DefaultLogRotatorConfig returns a LogRotatorConfig with the defaults
// above; only LogDir must be filled in by the caller.
func DefaultLogRotatorConfig() *LogRotatorConfig {
	return &LogRotatorConfig{
		MaxLogFiles:    DefaultMaxLogFiles,
		MaxLogFileSize: DefaultMaxLogFileSize,
		Filename:       DefaultLogFilename,
	}
}

// RotatingLogWriter is an io.Writer backed by a size-capped log file whose
// rotated predecessors are gzip-compressed. Writes go through a pipe into
// a jrick/logrotate rotator running on its own goroutine, so a rotation
// never blocks the logging caller.
type RotatingLogWriter struct {
	pipe *io.PipeWriter
}

// NewLogRotator creates cfg.LogDir if needed, opens the rotator over the
// configured file, and starts the goroutine that drains writes into it.
// The returned writer is ready for use immediately; Close flushes and
// stops the rotator.
func NewLogRotator(cfg *LogRotatorConfig) (*RotatingLogWriter, error) {
	filename := cfg.Filename
	if filename == "" {
		filename = DefaultLogFilename
	}
	logFile := filepath.Join(cfg.LogDir, filename)

	if err := os.MkdirAll(filepath.Dir(logFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// The rotator's size threshold is in KB; the config is in MB.
	rot, err := rotator.New(
		logFile,
		int64(cfg.MaxLogFileSize*1024),
		false,
		cfg.MaxLogFiles,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file rotator: %w", err)
	}
	rot.SetCompressor(gzip.NewWriter(nil), ".gz")

	// Run reads from the pipe until Close. A rotator failure can only be
	// reported to stderr, since the rotator itself is the log
	// destination.
	pr, pw := io.Pipe()
	go func() {
		if err := rot.Run(pr); err != nil {
			fmt.Fprintf(os.Stderr, "log rotator stopped: %v\n", err)
		}
	}()

	return &RotatingLogWriter{pipe: pw}, nil
}

// Write feeds the rotator. Implements io.Writer.
func (r *RotatingLogWriter) Write(b []byte) (int, error) {
	return r.pipe.Write(b)
}

// Close closes the write end of the pipe, signalling the rotator
// goroutine to flush and exit.
func (r *RotatingLogWriter) Close() error {
	return r.pipe.Close()
}
