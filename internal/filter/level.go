package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLevel is returned when a filter level name or value is not one
// of the four recognized levels. There is no silent fallback: callers must
// handle the error rather than continue with a default.
var ErrUnknownLevel = errors.New("unknown filter level")

// FilterLevel selects how much suppression the engine applies. Levels are
// ordered: every line emitted at a stricter level is also emitted at every
// less strict level.
type FilterLevel int

const (
	// LevelNone passes every line through untouched.
	LevelNone FilterLevel = iota

	// LevelMinimal collapses duplicate warnings but keeps everything else.
	LevelMinimal

	// LevelNormal is the default: duplicate warnings are collapsed, first
	// occurrences and simulator-internal messages still appear.
	LevelNormal

	// LevelAggressive additionally drops simulator-internal messages.
	LevelAggressive
)

// String returns the lowercase level name as accepted by ParseLevel.
func (l FilterLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelMinimal:
		return "minimal"
	case LevelNormal:
		return "normal"
	case LevelAggressive:
		return "aggressive"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func (l FilterLevel) valid() bool {
	return l >= LevelNone && l <= LevelAggressive
}

// MarshalText implements encoding.TextMarshaler.
func (l FilterLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *FilterLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts a level name to a FilterLevel. Matching is
// case-insensitive and ignores surrounding whitespace. Unrecognized names
// return ErrUnknownLevel.
func ParseLevel(s string) (FilterLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return LevelNone, nil
	case "minimal":
		return LevelMinimal, nil
	case "normal":
		return LevelNormal, nil
	case "aggressive":
		return LevelAggressive, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid levels: none, minimal, normal, aggressive)", ErrUnknownLevel, s)
	}
}

// Levels returns all filter levels from least to most strict.
func Levels() []FilterLevel {
	return []FilterLevel{LevelNone, LevelMinimal, LevelNormal, LevelAggressive}
}
