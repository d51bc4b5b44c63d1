// Package watch follows a simulator log file on disk, filtering new lines
// as they arrive. Rotation and truncation both start a fresh filter
// session, so duplicate memory never leaks from one simulation run into
// the next.
package watch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/voltlane/silt/internal/filter"
	"github.com/voltlane/silt/internal/stream"
)

// ErrFileRotated is returned when the watched file is rotated and rotation
// following is disabled.
var ErrFileRotated = errors.New("file rotated")

// Options configures the watcher behavior.
type Options struct {
	FilePath     string                    // Path to the simulator log file
	Level        filter.FilterLevel        // Filter level for each session
	Replay       bool                      // Whether to filter existing content before following
	FollowRotate bool                      // Whether to follow through log rotations
	Output       io.Writer                 // Receives retained lines with terminators
	Emit         func(filter.Result) error // Called per retained line instead of Output when set
	OnSessionEnd func(filter.Statistics)   // Called with final statistics when a session closes
	Logger       *slog.Logger
}

// Watcher follows one log file through any number of filter sessions.
type Watcher struct {
	opts    Options
	session *filter.Session
	file    *os.File
	offset  int64
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// New creates a new Watcher with the given options.
func New(opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{opts: opts, logger: logger}
}

// Run starts watching. It blocks until the context is cancelled or an
// error occurs. The current session is finalized on the way out, so
// OnSessionEnd always sees complete statistics.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.startSession(); err != nil {
		return err
	}
	defer w.endSession()

	if err := w.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer w.close()

	if w.opts.Replay {
		if err := w.readNewContent(); err != nil {
			return fmt.Errorf("failed to replay existing content: %w", err)
		}
	} else {
		stat, err := w.file.Stat()
		if err != nil {
			return err
		}
		w.offset = stat.Size()
	}

	if err := w.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer w.watcher.Close()

	return w.watch(ctx)
}

// startSession opens a fresh filter session with empty duplicate memory.
func (w *Watcher) startSession() error {
	session, err := filter.New(w.opts.Level)
	if err != nil {
		return err
	}
	w.session = session
	return nil
}

// endSession finalizes the current session and reports its statistics.
func (w *Watcher) endSession() {
	if w.session == nil {
		return
	}
	stats := w.session.Close()
	w.session = nil
	if w.opts.OnSessionEnd != nil {
		w.opts.OnSessionEnd(stats)
	}
}

func (w *Watcher) openFile() error {
	f, err := os.Open(w.opts.FilePath)
	if err != nil {
		return err
	}
	w.file = f
	w.offset = 0
	return nil
}

// setupWatcher initializes the fsnotify watcher.
func (w *Watcher) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(w.opts.FilePath); err != nil {
		return err
	}

	return nil
}

// watch monitors the file for changes and filters new lines.
func (w *Watcher) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}

			if err := w.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// handleEvent processes a file system event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		stat, err := w.file.Stat()
		if err != nil {
			return err
		}

		// In-place truncation means a new simulation run was started over
		// the same file. Fresh run, fresh session.
		if stat.Size() < w.offset {
			w.logger.Debug("file truncated, starting fresh session", "path", w.opts.FilePath)
			w.endSession()
			if err := w.startSession(); err != nil {
				return err
			}
			w.offset = 0
		}

		return w.readNewContent()

	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		return w.handleRotation(ctx)

	case event.Op&fsnotify.Chmod == fsnotify.Chmod:
		// Ignore chmod events
		return nil
	}

	return nil
}

// readNewContent filters lines appended since the last read. The offset
// only ever advances past complete lines: a trailing chunk without its
// terminator stays unconsumed and is re-read once the rest arrives.
func (w *Watcher) readNewContent() error {
	if _, err := w.file.Seek(w.offset, io.SeekStart); err != nil {
		return err
	}

	br := bufio.NewReaderSize(w.file, 64*1024)
	for {
		chunk, err := br.ReadString('\n')
		if err == nil {
			if perr := w.processLine(chunk); perr != nil {
				return perr
			}
			w.offset += int64(len(chunk))
			continue
		}
		if err == io.EOF {
			return nil
		}
		return err
	}
}

// processLine runs one complete line through the current session.
func (w *Watcher) processLine(chunk string) error {
	text, term := stream.SplitTerminator(chunk)
	res := w.session.Sift(text)
	if !res.Kept {
		return nil
	}
	if w.opts.Emit != nil {
		return w.opts.Emit(res)
	}
	if w.opts.Output == nil {
		return nil
	}
	_, err := io.WriteString(w.opts.Output, res.Text+term)
	return err
}

// handleRotation handles log file rotation.
func (w *Watcher) handleRotation(ctx context.Context) error {
	w.logger.Debug("file rotated", "path", w.opts.FilePath)
	w.endSession()

	if w.file != nil {
		w.file.Close()
		w.file = nil
	}

	if !w.opts.FollowRotate {
		return ErrFileRotated
	}

	// Wait for new file to appear (with timeout)
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(w.opts.FilePath)
			if err != nil {
				continue
			}

			w.file = f
			w.offset = 0
			if err := w.startSession(); err != nil {
				return err
			}

			if err := w.watcher.Add(w.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}

			fmt.Fprintf(os.Stderr, "\n==> File rotated, following new file <==\n")
			return w.readNewContent()
		}
	}
}

// close closes all resources.
func (w *Watcher) close() {
	if w.file != nil {
		w.file.Close()
	}
}
