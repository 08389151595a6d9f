// Package gate asks for the access PIN before the scene opens.
package gate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/survival-singularity/internal/logger"
)

// MaxPINLength bounds what the prompt accepts.
const MaxPINLength = 8

var (
	// ErrCanceled means the user closed the prompt.
	ErrCanceled = errors.New("pin entry canceled")
	// ErrLocked means every attempt was wrong.
	ErrLocked = errors.New("too many incorrect pins")
)

// Prompter asks for a PIN. retry is true after a wrong entry.
type Prompter interface {
	AskPIN(ctx context.Context, retry bool) (string, error)
}

// Gate checks entries against the configured PIN.
type Gate struct {
	pin      string
	attempts int
	prompter Prompter
	log      logger.Logger
}

// New returns a gate. An empty pin disables it; attempts below one means
// one attempt.
func New(pin string, attempts int, prompter Prompter, log logger.Logger) *Gate {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{pin: pin, attempts: attempts, prompter: prompter, log: log}
}

// Enabled reports whether a PIN is required.
func (g *Gate) Enabled() bool { return g.pin != "" }

// Unlock prompts until the right PIN is entered, the user cancels, or the
// attempts run out.
func (g *Gate) Unlock(ctx context.Context) error {
	if !g.Enabled() {
		return nil
	}
	for i := 0; i < g.attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, err := g.prompter.AskPIN(ctx, i > 0)
		if err != nil {
			return err
		}
		if g.check(entry) {
			g.log.Info(ctx, "access granted")
			return nil
		}
		g.log.Warn(ctx, "incorrect pin", logger.Int("attempt", i+1), logger.Int("of", g.attempts))
	}
	return ErrLocked
}

func (g *Gate) check(entry string) bool {
	if len(entry) > MaxPINLength {
		entry = entry[:MaxPINLength]
	}
	return subtle.ConstantTimeCompare([]byte(entry), []byte(g.pin)) == 1
}

// ZenityPrompter asks with a native password dialog.
type ZenityPrompter struct {
	Title string
}

func (z ZenityPrompter) AskPIN(ctx context.Context, retry bool) (string, error) {
	text := "Enter PIN to Access"
	if retry {
		text = "Incorrect PIN.\n" + text
	}
	title := z.Title
	if title == "" {
		title = "Survival Singularity"
	}
	entry, err := zenity.Entry(text,
		zenity.Title(title),
		zenity.HideText(),
		zenity.OKLabel("Unlock"),
		zenity.Context(ctx),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", fmt.Errorf("pin prompt: %w", err)
	}
	return entry, nil
}
