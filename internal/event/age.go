package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ageKind uint8

const (
	ageUnset ageKind = iota
	ageNumber
	ageText
)

// Age is either a number of years or a free-form label such as "Teens" or
// "40s". The original form is kept so import/export round-trips unchanged.
type Age struct {
	kind   ageKind
	number float64
	text   string
}

// NumberAge returns a numeric age.
func NumberAge(years float64) Age { return Age{kind: ageNumber, number: years} }

// TextAge returns a free-form age label.
func TextAge(label string) Age { return Age{kind: ageText, text: label} }

// Number reports the numeric age, if the age is numeric.
func (a Age) Number() (float64, bool) { return a.number, a.kind == ageNumber }

// Text reports the label, if the age is a label.
func (a Age) Text() (string, bool) { return a.text, a.kind == ageText }

// IsZero reports whether no age was given.
func (a Age) IsZero() bool { return a.kind == ageUnset }

func (a Age) String() string {
	switch a.kind {
	case ageNumber:
		return strconv.FormatFloat(a.number, 'f', -1, 64)
	case ageText:
		return a.text
	default:
		return "N/A"
	}
}

func (a Age) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case ageNumber:
		return []byte(strconv.FormatFloat(a.number, 'f', -1, 64)), nil
	case ageText:
		return json.Marshal(a.text)
	default:
		return []byte("null"), nil
	}
}

func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = Age{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("age: %w", err)
		}
		*a = TextAge(s)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("age %s: %w", data, ErrInvalidRecord)
		}
		*a = NumberAge(n)
		return nil
	}
}

func (a Age) MarshalYAML() (interface{}, error) {
	switch a.kind {
	case ageNumber:
		return a.number, nil
	case ageText:
		return a.text, nil
	default:
		return nil, nil
	}
}

func (a *Age) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("age at line %d: %w", node.Line, ErrInvalidRecord)
	}
	switch node.ShortTag() {
	case "!!null":
		*a = Age{}
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("age %q: %w", node.Value, ErrInvalidRecord)
		}
		*a = NumberAge(n)
	default:
		*a = TextAge(node.Value)
	}
	return nil
}
