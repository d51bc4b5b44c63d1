package filter

import "unicode/utf8"

// Classify assigns a category to a single line of simulator output. It is
// a pure function of the line text: the same line always yields the same
// category regardless of session state. Duplicate detection happens later,
// in the session, so Classify never returns CategoryDuplicate.
//
// Lines that are not valid UTF-8 are treated as OtherNoise without running
// any matcher, so malformed bytes pass through rather than being dropped
// on a spurious match.
func Classify(line string) Category {
	if !utf8.ValidString(line) {
		return CategoryOtherNoise
	}
	for _, r := range rules {
		if r.Matcher.MatchString(line) {
			return r.Category
		}
	}
	return CategoryOtherNoise
}
