package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// ParseLevel maps a -log-level value to a slog level. Unknown values and
// "none" only let errors through.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// New builds a JSON slog logger writing to stderr, or to logFile when set.
// The returned close function releases the file and stops log rotation.
func New(level string, logFile string) (*slog.Logger, func(), error) {
	options := &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(level),
	}

	if logFile == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, options)), func() {}, nil
	}

	w, err := openReopenable(logFile)
	if err != nil {
		return nil, nil, err
	}
	stop := w.setupLogRotation()

	closeFn := func() {
		stop()
		_ = w.Close()
	}
	return slog.New(slog.NewJSONHandler(w, options)), closeFn, nil
}

// reopenableFile is an append-only log file that can be reopened in place
// after it has been moved away by a rotation tool.
type reopenableFile struct {
	mu   sync.Mutex
	path string
	file *os.File
}

var _ io.WriteCloser = (*reopenableFile)(nil)

func openReopenable(path string) (*reopenableFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	w := &reopenableFile{path: path}
	if err := w.reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *reopenableFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Write(p)
}

func (w *reopenableFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *reopenableFile) reopen() error {
	fh, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file '%s': %w", w.path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		_ = w.file.Close()
	}
	w.file = fh
	return nil
}

/*
 * reopen the log file on SIGHUP so external rotation works
 * mv mankai.log mankai.bak && kill -HUP <pid>
 */
func (w *reopenableFile) setupLogRotation() (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigs:
				if err := w.reopen(); err != nil {
					fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
		})
	}
}
