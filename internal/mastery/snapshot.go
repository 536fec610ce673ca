package mastery

import (
	"fmt"

	"github.com/zhongchar/zhongchar/internal/store"
)

// FromData converts a persisted record into an Understanding.
func FromData(d store.MasteryData) (Understanding, error) {
	level, err := ParseLevel(d.Level)
	if err != nil {
		return Understanding{}, fmt.Errorf("item %s: %w", d.ItemID, err)
	}
	return Understanding{
		Level:                   level,
		ExcludedFromFrameOfSize: d.ExcludedFromFrameOfSize,
		CorrectStreak:           d.CorrectStreak,
	}.Normalize(), nil
}

// ToData converts an Understanding into its persisted form.
func ToData(itemID string, u Understanding) store.MasteryData {
	u = u.Normalize()
	return store.MasteryData{
		ItemID:                  itemID,
		Level:                   u.Level.String(),
		ExcludedFromFrameOfSize: u.ExcludedFromFrameOfSize,
		CorrectStreak:           u.CorrectStreak,
	}
}

// EventData converts a transition into a mastery event for the event log.
func EventData(t Transition, sessionID string) store.MasteryEventData {
	return store.MasteryEventData{
		ItemID:    t.ItemID,
		FromLevel: t.From.String(),
		ToLevel:   t.To.String(),
		Reason:    t.Trigger,
		SessionID: sessionID,
	}
}
