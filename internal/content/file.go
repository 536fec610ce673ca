package content

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the YAML layout read by FileProvider. Radicals is optional
// reference data keyed by the items' radical numbers.
type Document struct {
	Items    []Item    `yaml:"items"`
	Radicals []Radical `yaml:"radicals,omitempty"`
}

// FileProvider reads items from a YAML document on disk.
type FileProvider struct {
	Path string
}

func (p FileProvider) Items(ctx context.Context) ([]Item, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func (p FileProvider) Radicals(ctx context.Context) ([]Radical, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Radicals, nil
}

func (p FileProvider) document(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return ParseDocument(data)
}

// Parse decodes a YAML content document and checks every item's ID and form.
func Parse(data []byte) ([]Item, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// ParseDocument decodes a YAML content document, checking items and the
// optional radical records.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse content YAML: %w", err)
	}

	for i, it := range doc.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: missing id", i)
		}
		if _, err := it.Rune(); err != nil {
			return nil, err
		}
	}
	if err := validateRadicals(doc.Radicals); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes doc as a YAML content document.
func Marshal(doc Document) ([]byte, error) {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal content YAML: %w", err)
	}
	return b, nil
}
