package persistence

import (
	_ "embed"
	"fmt"

	"github.com/iburimskiy/survival-singularity/internal/event"
)

//go:embed data/default_events.json
var defaultEvents []byte

// Defaults returns the built-in event collection with fresh ids.
func Defaults() ([]event.Record, error) {
	records, err := Decode(defaultEvents, JSON)
	if err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	for i := range records {
		records[i].EnsureID()
	}
	return records, nil
}
