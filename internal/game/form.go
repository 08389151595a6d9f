package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iburimskiy/survival-singularity/internal/event"
)

// FormInput is the raw text of the add and edit forms.
type FormInput struct {
	Title       string
	Age         string
	Year        string
	Tags        string
	Probability string
	Description string
}

// FormFrom fills a form with rec so it can be edited.
func FormFrom(rec event.Record) FormInput {
	in := FormInput{
		Title:       rec.Title,
		Tags:        strings.Join(rec.Type, ", "),
		Probability: strconv.FormatFloat(rec.Probability, 'g', -1, 64),
		Description: rec.Description,
	}
	if !rec.Age.IsZero() {
		in.Age = rec.Age.String()
	}
	if rec.Year != nil {
		in.Year = strconv.Itoa(*rec.Year)
	}
	return in
}

// ParseForm turns form text into a validated record without an id.
func ParseForm(in FormInput) (event.Record, error) {
	rec := event.Record{
		Title:       strings.TrimSpace(in.Title),
		Age:         parseAge(in.Age),
		Description: strings.TrimSpace(in.Description),
	}

	if y := strings.TrimSpace(in.Year); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return event.Record{}, fmt.Errorf("year %q is not a whole number: %w", y, event.ErrInvalidRecord)
		}
		rec.Year = &year
	}

	for _, tag := range strings.Split(in.Tags, ",") {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			rec.Type = append(rec.Type, tag)
		}
	}

	p, err := ParseProbability(in.Probability)
	if err != nil {
		return event.Record{}, err
	}
	rec.Probability = p

	if err := rec.Validate(); err != nil {
		return event.Record{}, err
	}
	return rec, nil
}

// ParseProbability accepts a plain or scientific number ("0.001", "1e-6")
// or odds ("1/1000", "1 in 1,000").
func ParseProbability(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("probability is required: %w", event.ErrInvalidRecord)
	}

	num, den, isOdds := strings.Cut(s, "/")
	if !isOdds {
		num, den, isOdds = strings.Cut(strings.ToLower(s), " in ")
	}
	if !isOdds {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("probability %q is not a number: %w", s, event.ErrInvalidRecord)
		}
		return p, nil
	}

	n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
	d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, fmt.Errorf("odds %q are not of the form 1/N: %w", s, event.ErrInvalidRecord)
	}
	return n / d, nil
}

// Numbers become numeric ages; anything else ("Teens", "40s") is kept as
// written.
func parseAge(s string) event.Age {
	s = strings.TrimSpace(s)
	if s == "" {
		return event.Age{}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return event.NumberAge(v)
	}
	return event.TextAge(s)
}
