// Package stream connects an input log stream to a filter session. The
// driver reads line by line, preserves arrival order, and reattaches each
// line's original terminator so that unfiltered output is byte-identical
// to the input.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/voltlane/silt/internal/filter"
)

// Options configures where retained lines go.
type Options struct {
	// Output receives retained lines with their original terminators.
	Output io.Writer

	// Emit, when set, is called for every retained line instead of Output,
	// with the terminator stripped. Terminal decoration hooks in here.
	Emit func(filter.Result) error
}

// Driver pumps one stream through one filter session.
type Driver struct {
	session *filter.Session
	opts    Options
}

// New builds a driver over an existing session. The session's duplicate
// memory and counters accumulate across everything the driver reads.
func New(session *filter.Session, opts Options) *Driver {
	return &Driver{session: session, opts: opts}
}

// Run consumes r until EOF, feeding each line through the session and
// forwarding retained lines. A final line without a terminator is still
// processed and emitted without one. The only suspension point is the
// blocking read between lines; cancellation is observed there.
//
// Run does not close the session: callers take the final statistics with
// session.Close once all inputs are drained.
func (d *Driver) Run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk, readErr := br.ReadString('\n')
		if chunk != "" {
			text, term := SplitTerminator(chunk)
			if res := d.session.Sift(text); res.Kept {
				if err := d.forward(res, term); err != nil {
					return err
				}
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("reading stream: %w", readErr)
		}
	}
}

func (d *Driver) forward(res filter.Result, term string) error {
	if d.opts.Emit != nil {
		return d.opts.Emit(res)
	}
	if d.opts.Output == nil {
		return nil
	}
	if _, err := io.WriteString(d.opts.Output, res.Text+term); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// SplitTerminator separates a raw chunk into line text and its terminator.
// Recognized terminators are "\n" and "\r\n"; a truncated final line has
// none.
func SplitTerminator(chunk string) (text, term string) {
	if strings.HasSuffix(chunk, "\r\n") {
		return chunk[:len(chunk)-2], "\r\n"
	}
	if strings.HasSuffix(chunk, "\n") {
		return chunk[:len(chunk)-1], "\n"
	}
	return chunk, ""
}

// Filter is the one-shot form: it runs all of r through a fresh session at
// the given level, writes retained lines to w, and returns the final
// statistics. The statistics are final even when the run fails partway, so
// callers can report how far the stream got.
func Filter(ctx context.Context, r io.Reader, w io.Writer, level filter.FilterLevel) (filter.Statistics, error) {
	session, err := filter.New(level)
	if err != nil {
		return filter.Statistics{}, err
	}
	d := New(session, Options{Output: w})
	runErr := d.Run(ctx, r)
	return session.Close(), runErr
}
