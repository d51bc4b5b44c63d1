package filter

// Statistics is a point-in-time snapshot of a session's counters. Matches
// counts lines by the category the classifier assigned, so both
// occurrences of a repeated warning land in the warning's own bucket.
// Suppressed counts dropped lines by their final category, which is where
// repeats appear as CategoryDuplicate. The counters always satisfy
//
//	Observed == Emitted + sum(Suppressed)
//
// whether the snapshot is taken mid-stream or after Close.
type Statistics struct {
	Level      FilterLevel      `json:"level"`
	Observed   int              `json:"observed"`
	Emitted    int              `json:"emitted"`
	Duplicates int              `json:"duplicates"`
	Matches    map[Category]int `json:"matches"`
	Suppressed map[Category]int `json:"suppressed"`
	Reduction  float64          `json:"reduction"`
	Final      bool             `json:"final"`
}

// TotalSuppressed sums the suppressed counts across all categories.
func (s Statistics) TotalSuppressed() int {
	total := 0
	for _, n := range s.Suppressed {
		total += n
	}
	return total
}

func reduction(observed, emitted int) float64 {
	if observed == 0 {
		return 0
	}
	return 1 - float64(emitted)/float64(observed)
}

func copyCounts(m map[Category]int) map[Category]int {
	out := make(map[Category]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
