// Package content supplies the learnable items a question graph is built from.
package content

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/zhongchar/zhongchar/internal/store"
)

// Item is one learnable radical form.
type Item struct {
	ID            string   `yaml:"id"`
	Form          string   `yaml:"form"`
	RadicalNumber int      `yaml:"radical_number"`
	Meaning       string   `yaml:"meaning"`
	Pinyin        string   `yaml:"pinyin,omitempty"`
	StrokeCount   int      `yaml:"stroke_count,omitempty"`
	Follows       []string `yaml:"follows,omitempty"` // IDs this item comes after
}

// Rune returns the item's single-character form.
func (it Item) Rune() (rune, error) {
	if utf8.RuneCountInString(it.Form) != 1 {
		return 0, fmt.Errorf("item %s: form %q must be exactly one character", it.ID, it.Form)
	}
	r, _ := utf8.DecodeRuneInString(it.Form)
	if r == utf8.RuneError || unicode.IsSpace(r) || unicode.IsControl(r) {
		return 0, fmt.Errorf("item %s: form %q is not a printable character", it.ID, it.Form)
	}
	return r, nil
}

// Provider delivers the full, ordered item list in one fetch.
type Provider interface {
	Items(ctx context.Context) ([]Item, error)
}

// StaticProvider serves a fixed item list.
type StaticProvider []Item

func (p StaticProvider) Items(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Item, len(p))
	copy(out, p)
	return out, nil
}

// StoreProvider serves the items previously saved to the store.
type StoreProvider struct {
	Repo store.ItemRepo
}

func (p StoreProvider) Items(ctx context.Context) ([]Item, error) {
	data, err := p.Repo.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored items: %w", err)
	}
	return FromStoreItems(data), nil
}

// ToStoreItems converts items to their persisted form.
func ToStoreItems(items []Item) []store.ItemData {
	out := make([]store.ItemData, len(items))
	for i, it := range items {
		out[i] = store.ItemData{
			ID:            it.ID,
			Form:          it.Form,
			RadicalNumber: it.RadicalNumber,
			Meaning:       it.Meaning,
			Pinyin:        it.Pinyin,
			StrokeCount:   it.StrokeCount,
			Follows:       it.Follows,
		}
	}
	return out
}

// FromStoreItems converts persisted items back to Items.
func FromStoreItems(data []store.ItemData) []Item {
	out := make([]Item, len(data))
	for i, d := range data {
		out[i] = Item{
			ID:            d.ID,
			Form:          d.Form,
			RadicalNumber: d.RadicalNumber,
			Meaning:       d.Meaning,
			Pinyin:        d.Pinyin,
			StrokeCount:   d.StrokeCount,
			Follows:       d.Follows,
		}
	}
	return out
}
