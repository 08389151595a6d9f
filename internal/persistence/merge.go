package persistence

import (
	"fmt"
	"strings"

	"github.com/iburimskiy/survival-singularity/internal/event"
)

// Mode decides how imported records combine with the current ones.
type Mode int

const (
	// Replace discards the current records.
	Replace Mode = iota
	// Append keeps the current records and adds imported ones with new ids.
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "replace"
}

// ParseMode accepts "replace" or "append", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return Replace, nil
	case "append":
		return Append, nil
	default:
		return Replace, fmt.Errorf("unknown import mode %q: %w", s, ErrInvalidImport)
	}
}

// Merge combines current and imported records. Records without an id get a
// new one. Ids are unique in the result; the first occurrence wins.
func Merge(current, imported []event.Record, mode Mode) []event.Record {
	var base []event.Record
	if mode == Append {
		base = current
	}

	out := make([]event.Record, 0, len(base)+len(imported))
	seen := make(map[string]struct{}, cap(out))
	add := func(rec event.Record) {
		rec = rec.Clone()
		rec.EnsureID()
		if _, dup := seen[rec.ID]; dup {
			return
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}

	for _, rec := range base {
		add(rec)
	}
	for _, rec := range imported {
		add(rec)
	}
	return out
}
