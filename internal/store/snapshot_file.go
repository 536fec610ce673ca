package store

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// snapshotSchema describes the JSON document written by EncodeSnapshot.
// Level names must match mastery.Level's text form.
var snapshotSchema = map[string]any{
	"$schema":  "https://json-schema.org/draft/2020-12/schema",
	"type":     "object",
	"required": []any{"version", "mastery"},
	"properties": map[string]any{
		"version": map[string]any{"type": "integer", "minimum": 1},
		"mastery": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"item_id", "level"},
				"properties": map[string]any{
					"item_id":                     map[string]any{"type": "string", "minLength": 1},
					"level":                       map[string]any{"enum": []any{"dontknow", "know", "instant-recall"}},
					"excluded_from_frame_of_size": map[string]any{"type": "integer"},
					"correct_streak":              map[string]any{"type": "integer"},
					"updated_at":                  map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	compiledSnapshotOnce   sync.Once
	compiledSnapshotSchema *jsonschema.Schema
	compiledSnapshotErr    error
)

// ErrInvalidSnapshot indicates a snapshot document that does not conform
// to the snapshot schema.
type ErrInvalidSnapshot struct {
	Err error
}

func (e *ErrInvalidSnapshot) Error() string {
	return fmt.Sprintf("invalid snapshot: %v", e.Err)
}

func (e *ErrInvalidSnapshot) Unwrap() error { return e.Err }

// EncodeSnapshot writes data as indented JSON.
func EncodeSnapshot(w io.Writer, data SnapshotData) error {
	if data.Version == 0 {
		data.Version = CurrentSnapshotVersion
	}
	if data.Mastery == nil {
		data.Mastery = []MasteryData{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a snapshot document, validates it against the
// snapshot schema and decodes it. Validation failures are returned as
// *ErrInvalidSnapshot.
func DecodeSnapshot(r io.Reader) (*SnapshotData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrInvalidSnapshot{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := snapshotValidator()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrInvalidSnapshot{Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ErrInvalidSnapshot{Err: err}
	}
	return &data, nil
}

// snapshotValidator compiles the snapshot schema once.
func snapshotValidator() (*jsonschema.Schema, error) {
	compiledSnapshotOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, so round-trip
		// the Go literal through encoding/json.
		defBytes, err := json.Marshal(snapshotSchema)
		if err != nil {
			compiledSnapshotErr = fmt.Errorf("marshal snapshot schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compiledSnapshotErr = fmt.Errorf("parse snapshot schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://zhongchar-snapshot.json"
		if err := c.AddResource(url, def); err != nil {
			compiledSnapshotErr = fmt.Errorf("add snapshot schema: %w", err)
			return
		}
		compiledSnapshotSchema, compiledSnapshotErr = c.Compile(url)
		if compiledSnapshotErr != nil {
			compiledSnapshotErr = fmt.Errorf("compile snapshot schema: %w", compiledSnapshotErr)
		}
	})
	return compiledSnapshotSchema, compiledSnapshotErr
}
