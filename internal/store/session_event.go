package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := r.sqlb.Insert(tableSessionEvents).
		Columns("id", "sequence", "session_id", "frame_size", "chunks", "visited", "dont_know", "know", "instant_recall", "created_at").
		Values(uuid.New().String(), seqNum, data.SessionID, data.FrameSize, data.Chunks, data.Visited,
			data.DontKnow, data.Know, data.InstantRecall, time.Now().UTC())

	if err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionEventRecord, error) {
	sel := r.sqlb.Select("id", "sequence", "session_id", "frame_size", "chunks", "visited", "dont_know", "know", "instant_recall", "created_at").
		From(entsql.Table(tableSessionEvents)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEventRecord
	for rows.Next() {
		var e SessionEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.SessionID, &e.FrameSize, &e.Chunks, &e.Visited,
			&e.DontKnow, &e.Know, &e.InstantRecall, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return events, nil
}
