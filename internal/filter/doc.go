// Package filter implements the simulator log filtering engine.
//
// A line travels through three stages. The classifier assigns it a
// category from an ordered pattern table, with preserve rules first so
// that errors, failures and test results can never be claimed by a noise
// matcher. The deduplicator then reclassifies repeats of already-seen
// warning signatures as duplicates, comparing normalized text so that
// differing timestamps and source positions do not defeat the match.
// Finally the level policy decides whether the line's final category is
// dropped at the session's filter level.
//
// Typical use:
//
//	session, err := filter.New(filter.LevelNormal)
//	if err != nil {
//		return err
//	}
//	for _, line := range lines {
//		if out, keep := session.Process(line); keep {
//			fmt.Println(out)
//		}
//	}
//	stats := session.Close()
//
// The engine fails open: anything it does not recognize is kept, and a
// line containing an error or failure marker is kept at every level.
package filter
