package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// itemRepo implements ItemRepo on the items table.
type itemRepo struct {
	db   *sql.DB
	sqlb *entsql.DialectBuilder
}

func (r *itemRepo) SaveItems(ctx context.Context, items []ItemData) error {
	if len(items) == 0 {
		return nil
	}

	ins := r.sqlb.Insert(tableItems).
		Columns("id", "position", "form", "radical_number", "meaning", "pinyin", "stroke_count", "follows")
	for i, it := range items {
		follows := it.Follows
		if follows == nil {
			follows = []string{}
		}
		b, err := json.Marshal(follows)
		if err != nil {
			return fmt.Errorf("marshal follows for %q: %w", it.ID, err)
		}
		ins = ins.Values(it.ID, i, it.Form, it.RadicalNumber, it.Meaning, it.Pinyin, it.StrokeCount, string(b))
	}
	ins = ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

	if err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	return nil
}

func (r *itemRepo) Items(ctx context.Context) ([]ItemData, error) {
	sel := r.sqlb.Select("id", "form", "radical_number", "meaning", "pinyin", "stroke_count", "follows").
		From(entsql.Table(tableItems)).
		OrderBy("position", "id")

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []ItemData
	for rows.Next() {
		var (
			it      ItemData
			follows string
		)
		if err := rows.Scan(&it.ID, &it.Form, &it.RadicalNumber, &it.Meaning, &it.Pinyin, &it.StrokeCount, &follows); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if err := json.Unmarshal([]byte(follows), &it.Follows); err != nil {
			return nil, fmt.Errorf("decode follows for %q: %w", it.ID, err)
		}
		if len(it.Follows) == 0 {
			it.Follows = nil
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (r *itemRepo) SaveRadicals(ctx context.Context, radicals []RadicalData) error {
	if len(radicals) == 0 {
		return nil
	}

	ins := r.sqlb.Insert(tableRadicals).
		Columns("number", "forms", "stroke_count", "meaning", "colloquial_term", "pinyin",
			"han_viet", "hiragana_romaji", "hangul_romaja", "frequency", "simplified", "examples")
	for _, rd := range radicals {
		forms := rd.Forms
		if forms == nil {
			forms = []string{}
		}
		b, err := json.Marshal(forms)
		if err != nil {
			return fmt.Errorf("marshal forms for radical %d: %w", rd.Number, err)
		}
		ins = ins.Values(rd.Number, string(b), rd.StrokeCount, rd.Meaning, rd.ColloquialTerm, rd.Pinyin,
			rd.HanViet, rd.HiraganaRomaji, rd.HangulRomaja, rd.Frequency, rd.Simplified, rd.Examples)
	}
	ins = ins.OnConflict(entsql.ConflictColumns("number"), entsql.ResolveWithNewValues())

	if err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save radicals: %w", err)
	}
	return nil
}

func (r *itemRepo) Radicals(ctx context.Context) ([]RadicalData, error) {
	sel := r.sqlb.Select("number", "forms", "stroke_count", "meaning", "colloquial_term", "pinyin",
		"han_viet", "hiragana_romaji", "hangul_romaja", "frequency", "simplified", "examples").
		From(entsql.Table(tableRadicals)).
		OrderBy("number")

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query radicals: %w", err)
	}
	defer rows.Close()

	var radicals []RadicalData
	for rows.Next() {
		var (
			rd    RadicalData
			forms string
		)
		if err := rows.Scan(&rd.Number, &forms, &rd.StrokeCount, &rd.Meaning, &rd.ColloquialTerm, &rd.Pinyin,
			&rd.HanViet, &rd.HiraganaRomaji, &rd.HangulRomaja, &rd.Frequency, &rd.Simplified, &rd.Examples); err != nil {
			return nil, fmt.Errorf("scan radical: %w", err)
		}
		if err := json.Unmarshal([]byte(forms), &rd.Forms); err != nil {
			return nil, fmt.Errorf("decode forms for radical %d: %w", rd.Number, err)
		}
		if len(rd.Forms) == 0 {
			rd.Forms = nil
		}
		radicals = append(radicals, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate radicals: %w", err)
	}
	return radicals, nil
}
