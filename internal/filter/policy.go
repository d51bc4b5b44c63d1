package filter

// levelDrops is the suppression table: for each level, the set of final
// categories that are dropped. Preserve and OtherNoise appear at no level,
// which is what makes the engine safe to leave on.
var levelDrops = map[FilterLevel]map[Category]bool{
	LevelNone: {},
	LevelMinimal: {
		CategoryDuplicate: true,
	},
	LevelNormal: {
		CategoryDuplicate: true,
	},
	LevelAggressive: {
		CategoryDuplicate:       true,
		CategoryInternalMessage: true,
	},
}

// Drop reports whether a line whose final category is c is suppressed at
// the given level. The final category is the one left after duplicate
// reclassification, so a first-occurrence warning is consulted under its
// own category and a repeat under CategoryDuplicate.
func Drop(c Category, level FilterLevel) bool {
	return levelDrops[level][c]
}
