package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

func (r *eventRepo) AppendMasteryEvent(ctx context.Context, data MasteryEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := r.sqlb.Insert(tableMasteryEvents).
		Columns("id", "sequence", "item_id", "from_level", "to_level", "reason", "session_id", "created_at").
		Values(uuid.New().String(), seqNum, data.ItemID, data.FromLevel, data.ToLevel, data.Reason, data.SessionID,
			time.Now().UTC())

	if err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save mastery event: %w", err)
	}
	return nil
}

func (r *eventRepo) MasteryEvents(ctx context.Context, itemID string) ([]MasteryEventRecord, error) {
	sel := r.sqlb.Select("id", "sequence", "item_id", "from_level", "to_level", "reason", "session_id", "created_at").
		From(entsql.Table(tableMasteryEvents)).
		Where(entsql.EQ("item_id", itemID)).
		OrderBy("sequence")

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query mastery events: %w", err)
	}
	defer rows.Close()

	var events []MasteryEventRecord
	for rows.Next() {
		var e MasteryEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.ItemID, &e.FromLevel, &e.ToLevel, &e.Reason, &e.SessionID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mastery event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mastery events: %w", err)
	}
	return events, nil
}
