package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/voltlane/silt/internal/filter"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts a string to a ColorMode, defaulting to auto.
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Verdict tinting for preserved lines. A line carrying both is a summary
// row; failure wins so it stands out.
var (
	failTintRegex = regexp.MustCompile(`(?i)\b(?:fail(?:ed|ure(?:s)?)?|error(?:s)?|fatal)\b|[✗✘]`)
	passTintRegex = regexp.MustCompile(`(?i)\bpass(?:ed)?\b|[✓✔]`)
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		// Check if writer is a file and if it's a terminal
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// Enabled reports whether output written to w should be colorized under
// the given mode. With ColorAuto the answer depends on whether w is a
// terminal; buffers and pipes stay plain so filtered output can be
// post-processed safely.
func Enabled(mode ColorMode, w io.Writer) bool {
	return shouldColorize(mode, w)
}

// ColorizeResult applies color to a retained line based on its category.
// Preserved lines are tinted by verdict, warnings are yellow, and internal
// or duplicate content is dimmed.
func ColorizeResult(res filter.Result) string {
	switch res.Category {
	case filter.CategoryPreserve:
		switch {
		case failTintRegex.MatchString(res.Text):
			return colorBold + colorRed + res.Text + colorReset
		case passTintRegex.MatchString(res.Text):
			return colorGreen + res.Text + colorReset
		default:
			return res.Text
		}
	case filter.CategoryMetavalueWarning, filter.CategoryNullWarning, filter.CategoryInitWarning:
		return colorYellow + res.Text + colorReset
	case filter.CategoryInternalMessage, filter.CategoryDuplicate:
		return colorGray + res.Text + colorReset
	default:
		return res.Text
	}
}

// FormatResult formats a retained line with optional coloring.
func FormatResult(res filter.Result, colorize bool) string {
	if colorize {
		return ColorizeResult(res)
	}
	return res.Text
}

// WriteResult writes a retained line to the writer with color based on ColorMode.
func (wr *Writer) WriteResult(res filter.Result, mode ColorMode) error {
	colorize := shouldColorize(mode, wr.w)
	_, err := fmt.Fprintln(wr.w, FormatResult(res, colorize))
	return err
}
