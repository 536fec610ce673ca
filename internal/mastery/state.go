package mastery

import (
	"encoding"
	"fmt"
)

// Level is the variant tag of an Understanding.
type Level int

const (
	DontKnow      Level = iota + 1 // Not yet learned.
	Know                           // Learned, not yet proven durable.
	InstantRecall                  // Mastered; carries frame/streak data.
)

var (
	levelNames  = [...]string{DontKnow: "dontknow", Know: "know", InstantRecall: "instant-recall"}
	levelByName = map[string]Level{
		"dontknow":       DontKnow,
		"know":           Know,
		"instant-recall": InstantRecall,
	}
)

var (
	_ fmt.Stringer             = Level(0)
	_ encoding.TextMarshaler   = Level(0)
	_ encoding.TextUnmarshaler = (*Level)(nil)
)

// Valid reports whether l is one of the three defined levels.
func (l Level) Valid() bool {
	return l >= DontKnow && l <= InstantRecall
}

func (l Level) String() string {
	if l.Valid() {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("mastery: invalid level: %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLevel converts a level name back to a Level.
func ParseLevel(s string) (Level, error) {
	v, ok := levelByName[s]
	if !ok {
		return 0, fmt.Errorf("mastery: invalid level: %q", s)
	}
	return v, nil
}

// Understanding is the mastery state attached to one prompt. Exactly one
// variant is active, selected by Level. ExcludedFromFrameOfSize and
// CorrectStreak only carry meaning for InstantRecall.
type Understanding struct {
	Level                   Level `json:"level"`
	ExcludedFromFrameOfSize int   `json:"excluded_from_frame_of_size,omitempty"`
	CorrectStreak           int   `json:"correct_streak,omitempty"`
}

// DontKnowState returns the DontKnow variant.
func DontKnowState() Understanding {
	return Understanding{Level: DontKnow}
}

// KnowState returns the Know variant.
func KnowState() Understanding {
	return Understanding{Level: Know}
}

// InstantRecallState returns the InstantRecall variant. excludedFromFrameOfSize
// is the frame size at which the item was last dropped from rotation and
// streak counts consecutive correct answers.
func InstantRecallState(excludedFromFrameOfSize, streak int) Understanding {
	return Understanding{
		Level:                   InstantRecall,
		ExcludedFromFrameOfSize: excludedFromFrameOfSize,
		CorrectStreak:           streak,
	}
}

// Normalize clears the InstantRecall payload on the other variants.
func (u Understanding) Normalize() Understanding {
	if u.Level != InstantRecall {
		return Understanding{Level: u.Level}
	}
	return u
}

func (u Understanding) String() string {
	if u.Level == InstantRecall {
		return fmt.Sprintf("%s(%d, %d)", u.Level, u.ExcludedFromFrameOfSize, u.CorrectStreak)
	}
	return u.Level.String()
}

// Transition records an understanding change for display and event logging.
type Transition struct {
	ItemID  string
	From    Understanding
	To      Understanding
	Trigger string // "manual", "restore", "import"
}

// Changed reports whether the transition actually altered the understanding.
func (t Transition) Changed() bool {
	return t.From != t.To
}
