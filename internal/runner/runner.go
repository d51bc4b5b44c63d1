// Package runner executes a simulator command and filters its output as it
// streams. Stdout and stderr are merged into a single pipe so diagnostics
// keep their interleaved arrival order, and the child's exit code is
// surfaced so a failing simulation still fails the wrapping invocation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/voltlane/silt/internal/stream"
)

// Runner drives one simulator invocation through a filter.
type Runner struct {
	driver *stream.Driver
	logger *slog.Logger
}

// New creates a Runner that forwards the child's output through driver.
func New(driver *stream.Driver, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{driver: driver, logger: logger}
}

// Run executes the command and filters its combined output until the child
// exits. The child's exit code is returned so callers can propagate it; a
// non-zero exit is not an error here, since the filter's job is to pass
// failures through, not absorb them. Canceling ctx kills the child.
func (r *Runner) Run(ctx context.Context, command []string) (int, error) {
	if len(command) == 0 {
		return 0, errors.New("no command given")
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)

	// One pipe for both streams keeps interleaving intact: exec passes a
	// single descriptor to the child when Stdout and Stderr are the same
	// writer.
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	r.logger.Debug("starting simulator", "command", command[0], "args", command[1:])

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", command[0], err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		waitErr <- err
	}()

	driveErr := r.driver.Run(ctx, pr)

	// Closing the read side unblocks the child's writes if the driver bailed
	// out early, so Wait cannot hang.
	pr.Close()
	err := <-waitErr

	if driveErr != nil {
		return 0, driveErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			r.logger.Debug("simulator exited", "code", code)
			return code, nil
		}
		return 0, fmt.Errorf("running %s: %w", command[0], err)
	}

	return 0, nil
}
