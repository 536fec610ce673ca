package store

import (
	"context"
	"time"
)

// ItemData is one learnable item as stored in the items table.
type ItemData struct {
	ID            string   `json:"id"`
	Form          string   `json:"form"`
	RadicalNumber int      `json:"radical_number"`
	Meaning       string   `json:"meaning"`
	Pinyin        string   `json:"pinyin"`
	StrokeCount   int      `json:"stroke_count"`
	Follows       []string `json:"follows,omitempty"`
}

// RadicalData is the reference record for one Kangxi radical. Several item
// forms may share a radical number.
type RadicalData struct {
	Number         int      `json:"number"`
	Forms          []string `json:"forms,omitempty"`
	StrokeCount    int      `json:"stroke_count"`
	Meaning        string   `json:"meaning"`
	ColloquialTerm string   `json:"colloquial_term,omitempty"`
	Pinyin         string   `json:"pinyin"`
	HanViet        string   `json:"han_viet"`
	HiraganaRomaji string   `json:"hiragana_romaji"`
	HangulRomaja   string   `json:"hangul_romaja"`
	Frequency      int      `json:"frequency"`
	Simplified     string   `json:"simplified,omitempty"`
	Examples       string   `json:"examples"`
}

// MasteryData is the persisted understanding of a single item.
type MasteryData struct {
	ItemID                  string    `json:"item_id"`
	Level                   string    `json:"level"`
	ExcludedFromFrameOfSize int       `json:"excluded_from_frame_of_size"`
	CorrectStreak           int       `json:"correct_streak"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// SnapshotData captures the full learner state at a point in time.
type SnapshotData struct {
	Version int           `json:"version"`
	Mastery []MasteryData `json:"mastery"`
}

// CurrentSnapshotVersion is written into every new SnapshotData.
const CurrentSnapshotVersion = 1

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// MasteryEventData records one understanding change.
type MasteryEventData struct {
	ItemID    string
	FromLevel string
	ToLevel   string
	Reason    string
	SessionID string
}

// MasteryEventRecord is a MasteryEventData read back with its ordering.
type MasteryEventRecord struct {
	MasteryEventData
	ID        string
	Sequence  int64
	CreatedAt time.Time
}

// SessionEventData records the outcome of one pass over a learning frame.
type SessionEventData struct {
	SessionID     string
	FrameSize     int
	Chunks        int
	Visited       int
	DontKnow      int
	Know          int
	InstantRecall int
}

// SessionEventRecord is a SessionEventData read back with its ordering.
type SessionEventRecord struct {
	SessionEventData
	ID        string
	Sequence  int64
	CreatedAt time.Time
}

// ItemRepo stores the content provider's items so later sessions do not
// need to fetch them again.
type ItemRepo interface {
	// SaveItems upserts items, preserving the given order.
	SaveItems(ctx context.Context, items []ItemData) error

	// Items returns all stored items in their saved order.
	Items(ctx context.Context) ([]ItemData, error)

	// SaveRadicals upserts radical records keyed by number.
	SaveRadicals(ctx context.Context, radicals []RadicalData) error

	// Radicals returns all stored radical records by number.
	Radicals(ctx context.Context) ([]RadicalData, error)
}

// MasteryRepo persists understanding keyed by item identity.
type MasteryRepo interface {
	// Save upserts the given records atomically.
	Save(ctx context.Context, records []MasteryData) error

	// Load returns every stored record keyed by item ID.
	Load(ctx context.Context) (map[string]MasteryData, error)

	// Replace swaps every stored record for records in one transaction.
	Replace(ctx context.Context, records []MasteryData) error
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	AppendMasteryEvent(ctx context.Context, data MasteryEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// MasteryEvents returns events for one item, oldest first.
	MasteryEvents(ctx context.Context, itemID string) ([]MasteryEventRecord, error)

	// RecentSessions returns up to limit session events, newest first.
	RecentSessions(ctx context.Context, limit int) ([]SessionEventRecord, error)
}
