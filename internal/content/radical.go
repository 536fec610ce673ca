package content

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/zhongchar/zhongchar/internal/store"
)

// Radical is the reference record for one Kangxi radical. Items link to it
// through RadicalNumber; Forms groups every written variant.
type Radical struct {
	Number         int      `yaml:"number"`
	Forms          []string `yaml:"forms,omitempty"`
	StrokeCount    int      `yaml:"stroke_count,omitempty"`
	Meaning        string   `yaml:"meaning,omitempty"`
	ColloquialTerm string   `yaml:"colloquial_term,omitempty"`
	Pinyin         string   `yaml:"pinyin,omitempty"`
	HanViet        string   `yaml:"han_viet,omitempty"`
	HiraganaRomaji string   `yaml:"hiragana_romaji,omitempty"`
	HangulRomaja   string   `yaml:"hangul_romaja,omitempty"`
	Frequency      int      `yaml:"frequency,omitempty"`
	Simplified     string   `yaml:"simplified,omitempty"`
	Examples       string   `yaml:"examples,omitempty"`
}

// RadicalProvider is implemented by providers that also carry radical
// reference records.
type RadicalProvider interface {
	Radicals(ctx context.Context) ([]Radical, error)
}

func validateRadicals(radicals []Radical) error {
	seen := make(map[int]bool, len(radicals))
	for i, r := range radicals {
		if r.Number <= 0 {
			return fmt.Errorf("radical %d: number must be positive", i)
		}
		if seen[r.Number] {
			return fmt.Errorf("radical %d: duplicate number", r.Number)
		}
		seen[r.Number] = true
		for _, f := range r.Forms {
			if utf8.RuneCountInString(f) != 1 {
				return fmt.Errorf("radical %d: form %q must be exactly one character", r.Number, f)
			}
		}
	}
	return nil
}

// Radicals returns the stored radical records.
func (p StoreProvider) Radicals(ctx context.Context) ([]Radical, error) {
	data, err := p.Repo.Radicals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored radicals: %w", err)
	}
	return FromStoreRadicals(data), nil
}

// ToStoreRadicals converts radicals to their persisted form.
func ToStoreRadicals(radicals []Radical) []store.RadicalData {
	out := make([]store.RadicalData, len(radicals))
	for i, r := range radicals {
		out[i] = store.RadicalData(r)
	}
	return out
}

// FromStoreRadicals converts persisted radicals back to Radicals.
func FromStoreRadicals(data []store.RadicalData) []Radical {
	out := make([]Radical, len(data))
	for i, d := range data {
		out[i] = Radical(d)
	}
	return out
}
