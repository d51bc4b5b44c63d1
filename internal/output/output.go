// Package output renders filtered lines and session statistics. It
// supports text, JSON, and table formats, with optional ANSI coloring of
// lines by category.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/voltlane/silt/internal/filter"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteStats outputs a statistics snapshot in the configured format.
func (wr *Writer) WriteStats(stats filter.Statistics) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(stats)
	case FormatTable:
		return wr.writeStatsTable(stats)
	default:
		return wr.writeStatsText(stats)
	}
}

func (wr *Writer) writeStatsText(stats filter.Statistics) error {
	fmt.Fprintf(wr.w, "Filter level: %s\n", stats.Level)
	fmt.Fprintf(wr.w, "Observed %d lines, emitted %d, suppressed %d (%.1f%% reduction)\n",
		stats.Observed, stats.Emitted, stats.TotalSuppressed(), stats.Reduction*100)
	if stats.Duplicates > 0 {
		fmt.Fprintf(wr.w, "Duplicate warnings collapsed: %d\n", stats.Duplicates)
	}

	for _, c := range filter.Categories() {
		matched := stats.Matches[c]
		suppressed := stats.Suppressed[c]
		if matched == 0 && suppressed == 0 {
			continue
		}
		fmt.Fprintf(wr.w, "  %-18s matched %d, suppressed %d\n", c, matched, suppressed)
	}

	return nil
}

func (wr *Writer) writeStatsTable(stats filter.Statistics) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tMATCHED\tSUPPRESSED")
	fmt.Fprintln(tw, "--------\t-------\t----------")

	for _, c := range filter.Categories() {
		matched := stats.Matches[c]
		suppressed := stats.Suppressed[c]
		if matched == 0 && suppressed == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\n", c, matched, suppressed)
	}

	fmt.Fprintf(tw, "TOTAL\t%d\t%d\n", stats.Observed, stats.TotalSuppressed())
	return tw.Flush()
}
