package filter

import "fmt"

// Result describes the outcome of filtering one line.
type Result struct {
	// Text is the line as it should be emitted, identical to the input.
	Text string

	// Category is the final category after duplicate reclassification.
	Category Category

	// Kept reports whether the line survives the session's filter level.
	Kept bool
}

// Session applies one filter level to one stream of simulator output.
// Duplicate memory and statistics are scoped to the session: two sessions
// never share state, and a repeated warning is "seen before" only within
// the session that saw it. A Session is not safe for concurrent use; each
// stream gets its own.
type Session struct {
	level  FilterLevel
	dedup  *Deduplicator
	stats  Statistics
	closed bool
}

// New creates a session at the given filter level. Unrecognized levels
// return ErrUnknownLevel rather than falling back to a default.
func New(level FilterLevel) (*Session, error) {
	if !level.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(level))
	}
	return &Session{
		level: level,
		dedup: NewDeduplicator(),
		stats: Statistics{
			Level:      level,
			Matches:    make(map[Category]int),
			Suppressed: make(map[Category]int),
		},
	}, nil
}

// Level returns the session's filter level.
func (s *Session) Level() FilterLevel {
	return s.level
}

// Sift classifies one line, updates duplicate memory and counters, and
// decides whether the line is kept. Lines are expected without their
// terminator; callers that need byte-identical passthrough reattach the
// original terminator themselves.
//
// After Close, Sift is a no-op: nothing is counted and nothing is kept.
func (s *Session) Sift(line string) Result {
	if s.closed {
		return Result{}
	}

	category := Classify(line)
	s.stats.Observed++
	s.stats.Matches[category]++

	final := category
	if Deduplicated(category) && !s.dedup.Observe(category, line) {
		final = CategoryDuplicate
		s.stats.Duplicates++
	}

	if Drop(final, s.level) {
		s.stats.Suppressed[final]++
		return Result{Category: final}
	}

	s.stats.Emitted++
	return Result{Text: line, Category: final, Kept: true}
}

// Process is the plain form of Sift: it returns the line and whether to
// emit it.
func (s *Session) Process(line string) (string, bool) {
	r := s.Sift(line)
	return r.Text, r.Kept
}

// Stats returns a consistent snapshot of the session's counters. The
// snapshot is detached: later lines do not mutate it.
func (s *Session) Stats() Statistics {
	snap := s.stats
	snap.Matches = copyCounts(s.stats.Matches)
	snap.Suppressed = copyCounts(s.stats.Suppressed)
	snap.Reduction = reduction(snap.Observed, snap.Emitted)
	snap.Final = s.closed
	return snap
}

// Close finalizes the session and returns the final statistics. Closing is
// idempotent: repeated calls return the same snapshot, and lines offered
// after Close are ignored.
func (s *Session) Close() Statistics {
	s.closed = true
	return s.Stats()
}
