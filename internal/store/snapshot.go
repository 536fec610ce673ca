package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo on the snapshots table.
type snapshotRepo struct {
	db   *sql.DB
	sqlb *entsql.DialectBuilder
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	b, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	ins := r.sqlb.Insert(tableSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UTC(), string(b))
	if err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently saved snapshot. Insertion order decides,
// so snapshots saved within the same instant still sort correctly.
func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	sel := r.sqlb.Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Limit(1)

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		snap Snapshot
		data string
	)
	if err := rows.Scan(&snap.ID, &snap.Sequence, &snap.Timestamp, &data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the ID threshold: get the Nth most recent snapshot.
	sel := r.sqlb.Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1)

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int
	found := rows.Next()
	if found {
		err = rows.Scan(&threshold)
	}
	rows.Close()
	if err != nil {
		return fmt.Errorf("scan prune threshold: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	del := r.sqlb.Delete(tableSnapshots).Where(entsql.LTE("id", threshold))
	if err := execBuilt(ctx, r.db, del); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
