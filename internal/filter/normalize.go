package filter

import (
	"regexp"
	"strings"
)

// Normalization strips the parts of a diagnostic that vary between
// occurrences of the same underlying message, so that repeats can be
// recognized across different timestamps and source positions.
var (
	// Matches: "     4.00ns " or "12,500 ps " at the start of a line
	simTimePrefixRegex = regexp.MustCompile(`^\s*\d+(?:[.,]\d+)?\s*(?:fs|ps|ns|us|ms|sec|s)\b\s*`)

	// Matches: "2024-11-02 14:03:11,207 " or "14:03:11.207 " at the start of a line
	wallClockPrefixRegex = regexp.MustCompile(`^\s*(?:\d{4}-\d{2}-\d{2}[T ])?\d{2}:\d{2}:\d{2}(?:[.,]\d+)?Z?\s*`)

	// Matches: "@125ns:" or "@ 0 ms" embedded anywhere in the line
	embeddedSimTimeRegex = regexp.MustCompile(`@\s*\d+(?:[.,]\d+)?\s*(?:fs|ps|ns|us|ms|sec|s)\b:?`)

	// Matches: ":88:9" in "../rtl/pkg.vhd:88:9:", keeping the file name
	sourceLocRegex = regexp.MustCompile(`(\.(?:vhdl?|sv|svh|v|py|c|cc|cpp|h|hpp))(?::\d+)+`)

	whitespaceRunRegex = regexp.MustCompile(`\s+`)
)

// Normalize reduces a line to its signature text: simulation time prefixes,
// wall clock stamps, embedded time markers and source line numbers are
// removed, and whitespace runs collapse to single spaces. Two occurrences
// of the same diagnostic at different times normalize to the same string.
func Normalize(line string) string {
	s := simTimePrefixRegex.ReplaceAllString(line, "")
	s = wallClockPrefixRegex.ReplaceAllString(s, "")
	s = embeddedSimTimeRegex.ReplaceAllString(s, "")
	s = sourceLocRegex.ReplaceAllString(s, "$1")
	s = whitespaceRunRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Signature builds the deduplication key for a classified line. The
// category is part of the key, so identical text classified differently
// can never collide.
func Signature(category Category, line string) string {
	return category.String() + "|" + Normalize(line)
}
