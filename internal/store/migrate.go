package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableItems          = "items"
	tableRadicals       = "radicals"
	tableMastery        = "mastery"
	tableSnapshots      = "snapshots"
	tableMasteryEvents  = "mastery_events"
	tableSessionEvents  = "session_events"
	tableGlobalSequence = "global_sequence"
)

var (
	itemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "form", Type: field.TypeString},
		{Name: "radical_number", Type: field.TypeInt, Default: 0},
		{Name: "meaning", Type: field.TypeString, Default: ""},
		{Name: "pinyin", Type: field.TypeString, Default: ""},
		{Name: "stroke_count", Type: field.TypeInt, Default: 0},
		{Name: "follows", Type: field.TypeJSON},
	}
	itemsTable = &schema.Table{
		Name:       tableItems,
		Columns:    itemsColumns,
		PrimaryKey: []*schema.Column{itemsColumns[0]},
	}

	radicalsColumns = []*schema.Column{
		{Name: "number", Type: field.TypeInt},
		{Name: "forms", Type: field.TypeJSON},
		{Name: "stroke_count", Type: field.TypeInt, Default: 0},
		{Name: "meaning", Type: field.TypeString, Default: ""},
		{Name: "colloquial_term", Type: field.TypeString, Default: ""},
		{Name: "pinyin", Type: field.TypeString, Default: ""},
		{Name: "han_viet", Type: field.TypeString, Default: ""},
		{Name: "hiragana_romaji", Type: field.TypeString, Default: ""},
		{Name: "hangul_romaja", Type: field.TypeString, Default: ""},
		{Name: "frequency", Type: field.TypeInt, Default: 0},
		{Name: "simplified", Type: field.TypeString, Default: ""},
		{Name: "examples", Type: field.TypeString, Default: ""},
	}
	radicalsTable = &schema.Table{
		Name:       tableRadicals,
		Columns:    radicalsColumns,
		PrimaryKey: []*schema.Column{radicalsColumns[0]},
	}

	masteryColumns = []*schema.Column{
		{Name: "item_id", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "excluded_from_frame_of_size", Type: field.TypeInt, Default: 0},
		{Name: "correct_streak", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
	}
	masteryTable = &schema.Table{
		Name:       tableMastery,
		Columns:    masteryColumns,
		PrimaryKey: []*schema.Column{masteryColumns[0]},
	}

	// Snapshots are ordered by their autoincrement id, never by timestamp.
	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	snapshotsTable = &schema.Table{
		Name:       tableSnapshots,
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
	}

	masteryEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "item_id", Type: field.TypeString},
		{Name: "from_level", Type: field.TypeString},
		{Name: "to_level", Type: field.TypeString},
		{Name: "reason", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	masteryEventsTable = &schema.Table{
		Name:       tableMasteryEvents,
		Columns:    masteryEventsColumns,
		PrimaryKey: []*schema.Column{masteryEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "idx_mastery_events_item",
				Columns: []*schema.Column{masteryEventsColumns[2], masteryEventsColumns[1]},
			},
		},
	}

	sessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
		{Name: "frame_size", Type: field.TypeInt},
		{Name: "chunks", Type: field.TypeInt},
		{Name: "visited", Type: field.TypeInt},
		{Name: "dont_know", Type: field.TypeInt},
		{Name: "know", Type: field.TypeInt},
		{Name: "instant_recall", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
	}
	sessionEventsTable = &schema.Table{
		Name:       tableSessionEvents,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "idx_session_events_seq",
				Columns: []*schema.Column{sessionEventsColumns[1]},
			},
		},
	}

	// global_sequence holds a single row; see sequenceCounter.
	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTable = &schema.Table{
		Name:       tableGlobalSequence,
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	// tables lists every table the repositories use. Event tables carry the
	// global sequence so mastery and session events interleave in append
	// order.
	tables = []*schema.Table{
		itemsTable,
		radicalsTable,
		masteryTable,
		snapshotsTable,
		masteryEventsTable,
		sessionEventsTable,
		globalSequenceTable,
	}
)

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
