package filter

import (
	"fmt"
	"strings"
)

// Category is the classification assigned to a single line of simulator
// output. Classification drives the keep/drop decision: Preserve is never
// dropped, OtherNoise is never dropped, and the warning categories are
// subject to duplicate collapsing and level-based suppression.
type Category int

const (
	// CategoryPreserve marks actionable signal: errors, failures, PASS/FAIL
	// markers, assertion failures, test headers, separators, result glyphs.
	CategoryPreserve Category = iota

	// CategoryMetavalueWarning marks IEEE numeric-conversion diagnostics
	// about undefined or metavalue operands.
	CategoryMetavalueWarning

	// CategoryNullWarning marks diagnostics about null or uninitialized
	// conversion arguments.
	CategoryNullWarning

	// CategoryInitWarning marks diagnostics stamped at simulated time zero,
	// the usual burst of artifacts before signals settle.
	CategoryInitWarning

	// CategoryInternalMessage marks simulator-internal informational lines:
	// elaboration, VPI/VHPI interface registration, back-annotation,
	// bound-check notices.
	CategoryInternalMessage

	// CategoryDuplicate marks a repeat of an already-seen warning signature.
	// The classifier never returns it; the deduplicator assigns it.
	CategoryDuplicate

	// CategoryOtherNoise is the fallback for unrecognized content, which is
	// conservatively treated as significant and always kept.
	CategoryOtherNoise
)

// String returns the category name as used in statistics output.
func (c Category) String() string {
	switch c {
	case CategoryPreserve:
		return "PRESERVE"
	case CategoryMetavalueWarning:
		return "METAVALUE_WARNING"
	case CategoryNullWarning:
		return "NULL_WARNING"
	case CategoryInitWarning:
		return "INIT_WARNING"
	case CategoryInternalMessage:
		return "INTERNAL_MESSAGE"
	case CategoryDuplicate:
		return "DUPLICATE"
	case CategoryOtherNoise:
		return "OTHER_NOISE"
	default:
		return fmt.Sprintf("CATEGORY(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler so that categories render
// as names in JSON output, including as map keys.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category: %q", text)
	}
	*c = parsed
	return nil
}

// ParseCategory converts a category name back to a Category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRESERVE":
		return CategoryPreserve, true
	case "METAVALUE_WARNING":
		return CategoryMetavalueWarning, true
	case "NULL_WARNING":
		return CategoryNullWarning, true
	case "INIT_WARNING":
		return CategoryInitWarning, true
	case "INTERNAL_MESSAGE":
		return CategoryInternalMessage, true
	case "DUPLICATE":
		return CategoryDuplicate, true
	case "OTHER_NOISE":
		return CategoryOtherNoise, true
	default:
		return 0, false
	}
}

// Categories returns all categories in classification priority order.
// Useful for rendering stable statistics tables.
func Categories() []Category {
	return []Category{
		CategoryPreserve,
		CategoryMetavalueWarning,
		CategoryNullWarning,
		CategoryInitWarning,
		CategoryInternalMessage,
		CategoryDuplicate,
		CategoryOtherNoise,
	}
}
