package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// masteryRepo implements MasteryRepo on the mastery table.
type masteryRepo struct {
	db   *sql.DB
	sqlb *entsql.DialectBuilder
}

func (r *masteryRepo) Save(ctx context.Context, records []MasteryData) error {
	if len(records) == 0 {
		return nil
	}
	ins, err := r.upsert(records)
	if err != nil {
		return fmt.Errorf("save mastery: %w", err)
	}

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		return execBuilt(ctx, tx, ins)
	})
	if err != nil {
		return fmt.Errorf("save mastery: %w", err)
	}
	return nil
}

// Replace deletes every stored record and writes records in their place
// within one transaction. A failed write leaves the table as it was.
func (r *masteryRepo) Replace(ctx context.Context, records []MasteryData) error {
	var ins *entsql.InsertBuilder
	if len(records) > 0 {
		var err error
		if ins, err = r.upsert(records); err != nil {
			return fmt.Errorf("replace mastery: %w", err)
		}
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := execBuilt(ctx, tx, r.sqlb.Delete(tableMastery)); err != nil {
			return err
		}
		if ins == nil {
			return nil
		}
		return execBuilt(ctx, tx, ins)
	})
	if err != nil {
		return fmt.Errorf("replace mastery: %w", err)
	}
	return nil
}

func (r *masteryRepo) upsert(records []MasteryData) (*entsql.InsertBuilder, error) {
	now := time.Now().UTC()
	ins := r.sqlb.Insert(tableMastery).
		Columns("item_id", "level", "excluded_from_frame_of_size", "correct_streak", "updated_at")
	for _, rec := range records {
		if rec.ItemID == "" {
			return nil, fmt.Errorf("empty item ID")
		}
		updated := rec.UpdatedAt
		if updated.IsZero() {
			updated = now
		}
		ins = ins.Values(rec.ItemID, rec.Level, rec.ExcludedFromFrameOfSize, rec.CorrectStreak, updated.UTC())
	}
	return ins.OnConflict(entsql.ConflictColumns("item_id"), entsql.ResolveWithNewValues()), nil
}

func (r *masteryRepo) Load(ctx context.Context) (map[string]MasteryData, error) {
	sel := r.sqlb.Select("item_id", "level", "excluded_from_frame_of_size", "correct_streak", "updated_at").
		From(entsql.Table(tableMastery))

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer rows.Close()

	result := make(map[string]MasteryData)
	for rows.Next() {
		var rec MasteryData
		if err := rows.Scan(&rec.ItemID, &rec.Level, &rec.ExcludedFromFrameOfSize, &rec.CorrectStreak, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		result[rec.ItemID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mastery: %w", err)
	}
	return result, nil
}
