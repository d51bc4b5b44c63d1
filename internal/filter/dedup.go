package filter

// Deduplicated reports whether a category participates in duplicate
// collapsing. Only the warning categories are tracked: preserved lines and
// unrecognized content always pass through even when repeated verbatim,
// and internal messages are governed purely by the filter level.
func Deduplicated(c Category) bool {
	switch c {
	case CategoryMetavalueWarning, CategoryNullWarning, CategoryInitWarning:
		return true
	default:
		return false
	}
}

// Deduplicator remembers which warning signatures have been seen within a
// single session. Memory is never evicted: a signature seen once stays a
// duplicate for the rest of the session, however far apart the repeats are.
type Deduplicator struct {
	seen map[string]int
}

// NewDeduplicator returns an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]int)}
}

// Observe records one occurrence of a line under its category and reports
// whether this is the first time its signature has been seen.
func (d *Deduplicator) Observe(category Category, line string) bool {
	sig := Signature(category, line)
	d.seen[sig]++
	return d.seen[sig] == 1
}

// Len returns the number of distinct signatures observed so far.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
