package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/survival-singularity/internal/event"
)

// Format is a serialization of the flat record list.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Encode renders records as an indented list.
func Encode(records []event.Record, f Format) ([]byte, error) {
	if records == nil {
		records = []event.Record{}
	}
	if f == YAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// Decode parses a flat list of records. Anything other than a list, or a
// list element that is not a record, is an ErrInvalidImport.
func Decode(data []byte, f Format) ([]event.Record, error) {
	if f == YAML {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) ([]event.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("expected a JSON list of events: %v: %w", err, ErrInvalidImport)
	}
	// null decodes into a nil slice without error; "[]" does not.
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON list of events, got null: %w", ErrInvalidImport)
	}
	records := make([]event.Record, 0, len(raw))
	for i, item := range raw {
		var rec event.Record
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("event %d: %v: %w", i, err, ErrInvalidImport)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeYAML(data []byte) ([]event.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %v: %w", err, ErrInvalidImport)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a YAML list of events: %w", ErrInvalidImport)
	}
	records := make([]event.Record, 0, len(doc.Content[0].Content))
	for i, item := range doc.Content[0].Content {
		var rec event.Record
		if err := item.Decode(&rec); err != nil {
			return nil, fmt.Errorf("event %d: %v: %w", i, err, ErrInvalidImport)
		}
		records = append(records, rec)
	}
	return records, nil
}
