// Package event defines the event record: a single logged personal incident
// with its title, age, category tags and estimated probability.
package event

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Record is one event. Probability p reads as "1 in 1/p".
type Record struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Age         Age      `json:"age" yaml:"age"`
	Year        *int     `json:"year" yaml:"year"`
	Type        []string `json:"type" yaml:"type"`
	Probability float64  `json:"probability" yaml:"probability"`
	Description string   `json:"description" yaml:"description"`
}

// NewID returns a fresh record identifier.
func NewID() string { return uuid.NewString() }

// EnsureID assigns a new identifier when the record has none.
func (r *Record) EnsureID() {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = NewID()
	}
}

// Validate checks the fields a form submission must provide.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title must not be empty: %w", ErrInvalidRecord)
	}
	if len(r.Type) == 0 {
		return fmt.Errorf("at least one type is required: %w", ErrInvalidRecord)
	}
	for _, t := range r.Type {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("type tags must not be blank: %w", ErrInvalidRecord)
		}
	}
	if math.IsNaN(r.Probability) || r.Probability <= 0 || r.Probability > 1 {
		return fmt.Errorf("probability %v must be in (0, 1]: %w", r.Probability, ErrInvalidRecord)
	}
	return nil
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	c := r
	if r.Type != nil {
		c.Type = append([]string(nil), r.Type...)
	}
	if r.Year != nil {
		y := *r.Year
		c.Year = &y
	}
	return c
}

// YearString renders the year or "N/A".
func (r Record) YearString() string {
	if r.Year == nil {
		return "N/A"
	}
	return strconv.Itoa(*r.Year)
}

// FormatProbability renders p in scientific notation with the given number of
// fraction digits and a compact exponent, e.g. 1.0e-9.
func FormatProbability(p float64, digits int) string {
	s := strconv.FormatFloat(p, 'e', digits, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%se%+d", mant, n)
}

// Odds renders p as "1 in N".
func Odds(p float64) string {
	if math.IsNaN(p) || p <= 0 {
		return "never observed"
	}
	if p >= 1 {
		return "1 in 1"
	}
	return "1 in " + humanize.Commaf(math.Round(1/p))
}
