package game

import (
	"fmt"
	"strings"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/visual"
)

// Chimer rings a note for a selected event.
type Chimer interface {
	PlayChime(glow float64)
}

// Overlay is the 2D state drawn over the scene: tooltip, detail panel and
// status line. It is driven by the interaction callbacks.
type Overlay struct {
	chimer Chimer

	tooltipOn  bool
	tooltipRec event.Record
	tooltipPos interaction.Point

	panelOn  bool
	panelRec event.Record

	status    string
	statusErr bool
}

// NewOverlay returns an empty overlay. chimer may be nil.
func NewOverlay(chimer Chimer) *Overlay {
	return &Overlay{chimer: chimer}
}

// Callbacks routes controller notifications into the overlay.
func (o *Overlay) Callbacks() interaction.Callbacks {
	return interaction.Callbacks{
		OnShowTooltip: func(rec event.Record) {
			o.tooltipOn, o.tooltipRec = true, rec
		},
		OnHideTooltip: func() {
			o.tooltipOn = false
		},
		OnUpdateTooltipPosition: func(p interaction.Point) {
			o.tooltipPos = p
		},
		OnEventSelected: func(rec event.Record) {
			o.panelOn, o.panelRec = true, rec
			if o.chimer != nil {
				o.chimer.PlayChime(visual.GlowIntensity(rec.Probability))
			}
		},
		OnEventDeselected: func() {
			o.panelOn = false
		},
	}
}

// Tooltip returns the hovered record and where to draw it.
func (o *Overlay) Tooltip() (event.Record, interaction.Point, bool) {
	return o.tooltipRec, o.tooltipPos, o.tooltipOn
}

// Panel returns the record shown in the detail panel.
func (o *Overlay) Panel() (event.Record, bool) {
	return o.panelRec, o.panelOn
}

// RefreshPanel swaps in an edited copy of the record on display.
func (o *Overlay) RefreshPanel(rec event.Record) {
	if o.panelOn && o.panelRec.ID == rec.ID {
		o.panelRec = rec
	}
}

// ClosePanel hides the detail panel.
func (o *Overlay) ClosePanel() { o.panelOn = false }

// SetStatus shows an informational message.
func (o *Overlay) SetStatus(format string, args ...any) {
	o.status, o.statusErr = fmt.Sprintf(format, args...), false
}

// SetError shows err in the status line. A nil error clears it.
func (o *Overlay) SetError(err error) {
	if err == nil {
		if o.statusErr {
			o.status, o.statusErr = "", false
		}
		return
	}
	o.status, o.statusErr = "Error: "+err.Error(), true
}

// Status returns the status message and whether it is an error.
func (o *Overlay) Status() (string, bool) { return o.status, o.statusErr }

// DetailLines is the text of the detail panel for rec, with the
// description wrapped to width characters.
func DetailLines(rec event.Record, width int) []string {
	lines := []string{
		rec.Title,
		"",
		"Age:         " + rec.Age.String(),
		"Year:        " + rec.YearString(),
		"Type:        " + strings.Join(rec.Type, ", "),
		"Probability: " + event.FormatProbability(rec.Probability, 2),
		"Odds:        " + event.Odds(rec.Probability),
		fmt.Sprintf("Rarity:      %.0f%%", visual.Rarity(rec.Probability)*100),
	}
	if rec.Description != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(rec.Description, width)...)
	}
	return lines
}

// wrap breaks s on spaces so no line is longer than width, unless a single
// word is.
func wrap(s string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(s) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
