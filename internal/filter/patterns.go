package filter

import "regexp"

// Preserve matchers. These run before everything else so a significant
// line can never be claimed by a broader noise matcher further down.
var (
	// Matches: "** TEST ... PASS", "ERROR: timeout waiting for ready", "2 failures"
	resultTokenRegex = regexp.MustCompile(`(?i)\b(?:pass(?:ed)?|fail(?:ed|ure(?:s)?)?|error(?:s)?)\b`)

	// Matches: "AssertionError: values differ", "Traceback (most recent call last)", "Fatal: ..."
	failureDetailRegex = regexp.MustCompile(`(?i)(?:\bassertionerror\b|\btraceback\b|\bexception\b|\bfatal\b)`)

	// Matches: "T1: zero vector", "# Test 2: round trip", "*** T3) edge cases"
	testHeaderRegex = regexp.MustCompile(`(?i)^\s*[#*>=-]*\s*(?:test|t)\s*\d+\s*[:.)]`)

	// Matches: "running test_conversions (1/3)", "skipping test_stress"
	testProgressRegex = regexp.MustCompile(`(?i)\b(?:running|skipping|starting)\s+test`)

	// Matches: "====================", "----------------"
	separatorRegex = regexp.MustCompile(`^\s*[*=~_-]{4,}\s*$`)

	// Matches: "✓ conversion round trip", "✗ boundary case"
	resultGlyphRegex = regexp.MustCompile(`[✓✗✔✘]`)
)

// Metavalue warning matchers, the IEEE library diagnostics emitted when an
// arithmetic or conversion operand carries 'U', 'X', 'W', 'Z' or '-'.
var (
	// Matches: "NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0"
	metavalueRegex = regexp.MustCompile(`(?i)metavalue detected`)

	// Matches: "There is an 'U'|'X'|'W'|'Z'|'-' in an arithmetic operand, ..."
	arithOperandRegex = regexp.MustCompile(`(?i)arithmetic operand`)
)

// Null warning matchers.
var (
	// Matches: "NUMERIC_STD.TO_UNSIGNED: null argument detected, returning NAU"
	nullDetectedRegex = regexp.MustCompile(`(?i)null (?:argument |array )?detected`)
)

// Initialization warning matchers: diagnostics stamped at simulated time
// zero, before signals have settled.
var (
	// Matches: "../rtl/pkg.vhd:88:9:@0ms:(assertion warning): ..."
	timeZeroRegex = regexp.MustCompile(`(?i)(?:@\s*0|\bat time 0)\s*(?:fs|ps|ns|us|ms|sec|s)\b`)
)

// Internal message matchers: simulator bookkeeping with no bearing on the
// design under test.
var (
	// Matches: "ghdl:info: simulation stopped by --stop-time"
	simulatorInfoRegex = regexp.MustCompile(`(?i)\bghdl:(?:info|note):`)

	// Matches: "elaboration completed", "elaborating design unit tb"
	elaborationRegex = regexp.MustCompile(`(?i)\belaborat(?:e[ds]?|ion|ing)\b`)

	// Matches: "loading VPI module ...", "VHPI registered", "GPI embed initialized"
	interfaceLoadRegex = regexp.MustCompile(`(?i)(?:\b(?:vpi|vhpi|gpi|fli)\b.*\b(?:load(?:ed|ing)?|regist\w*|module|interface|init\w*)\b|\b(?:load(?:ed|ing)?|regist\w*|init\w*)\b.*\b(?:vpi|vhpi|gpi|fli)\b)`)

	// Matches: "back-annotation not supported", "backannotating timing"
	backAnnotationRegex = regexp.MustCompile(`(?i)back.?annotat`)

	// Matches: "bound check at elaboration". A bound check failure carries
	// "failure" and is preserved before this rule is reached.
	boundCheckRegex = regexp.MustCompile(`(?i)bound check`)

	// Matches: "Running on GHDL version 4.1.0", "Seeding Python random module
	// with 1692962...", "found 3 tests", "simulation finished @80ns"
	bannerRegex = regexp.MustCompile(`(?i)\b(?:running on|seeding python random|simulation (?:started|stopped|finished)|found \d+ tests?\b|cocotb v\d)`)
)

// Rule pairs a compiled matcher with the category it assigns.
type Rule struct {
	Name        string
	Category    Category
	Matcher     *regexp.Regexp
	Description string
}

// rules is evaluated top to bottom and the first match wins. Ordering
// encodes category priority: preserve, then metavalue, null,
// initialization, internal. Lines matching nothing are OtherNoise.
var rules = []Rule{
	{
		Name:        "result-token",
		Category:    CategoryPreserve,
		Matcher:     resultTokenRegex,
		Description: "pass, fail and error words anywhere in the line",
	},
	{
		Name:        "failure-detail",
		Category:    CategoryPreserve,
		Matcher:     failureDetailRegex,
		Description: "tracebacks, exceptions and fatal diagnostics",
	},
	{
		Name:        "test-header",
		Category:    CategoryPreserve,
		Matcher:     testHeaderRegex,
		Description: "numbered test section headers",
	},
	{
		Name:        "test-progress",
		Category:    CategoryPreserve,
		Matcher:     testProgressRegex,
		Description: "test runner progress lines",
	},
	{
		Name:        "separator",
		Category:    CategoryPreserve,
		Matcher:     separatorRegex,
		Description: "horizontal rules delimiting report sections",
	},
	{
		Name:        "result-glyph",
		Category:    CategoryPreserve,
		Matcher:     resultGlyphRegex,
		Description: "check and cross mark result glyphs",
	},
	{
		Name:        "metavalue-detected",
		Category:    CategoryMetavalueWarning,
		Matcher:     metavalueRegex,
		Description: "numeric_std metavalue conversion warnings",
	},
	{
		Name:        "arithmetic-operand",
		Category:    CategoryMetavalueWarning,
		Matcher:     arithOperandRegex,
		Description: "std_logic_arith undefined operand warnings",
	},
	{
		Name:        "null-detected",
		Category:    CategoryNullWarning,
		Matcher:     nullDetectedRegex,
		Description: "null argument and null array warnings",
	},
	{
		Name:        "time-zero",
		Category:    CategoryInitWarning,
		Matcher:     timeZeroRegex,
		Description: "diagnostics stamped at simulated time zero",
	},
	{
		Name:        "simulator-info",
		Category:    CategoryInternalMessage,
		Matcher:     simulatorInfoRegex,
		Description: "simulator info and note channels",
	},
	{
		Name:        "elaboration",
		Category:    CategoryInternalMessage,
		Matcher:     elaborationRegex,
		Description: "design elaboration progress",
	},
	{
		Name:        "interface-load",
		Category:    CategoryInternalMessage,
		Matcher:     interfaceLoadRegex,
		Description: "VPI, VHPI, GPI and FLI interface registration",
	},
	{
		Name:        "back-annotation",
		Category:    CategoryInternalMessage,
		Matcher:     backAnnotationRegex,
		Description: "timing back-annotation notices",
	},
	{
		Name:        "bound-check",
		Category:    CategoryInternalMessage,
		Matcher:     boundCheckRegex,
		Description: "elaboration bound check notices",
	},
	{
		Name:        "startup-banner",
		Category:    CategoryInternalMessage,
		Matcher:     bannerRegex,
		Description: "simulator and test runner startup banners",
	},
}
