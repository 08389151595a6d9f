package game

import (
	"context"
	"errors"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/survival-singularity/internal/persistence"
)

// ErrCanceled is returned when the user dismisses a dialog.
var ErrCanceled = errors.New("dialog canceled")

// Dialogs are the native prompts behind the toolbar. Each call blocks until
// the user answers.
type Dialogs interface {
	OpenImport(ctx context.Context) (path string, mode persistence.Mode, err error)
	SaveExport(ctx context.Context) (string, error)
	EditEvent(ctx context.Context, title string, in FormInput) (FormInput, error)
	ConfirmRemove(ctx context.Context, title string) (bool, error)
	OpenSoundtrack(ctx context.Context) (string, error)
}

var (
	dataFilters = zenity.FileFilters{
		{Name: "Event collections", Patterns: []string{"*.json", "*.yaml", "*.yml"}},
	}
	audioFilters = zenity.FileFilters{
		{Name: "Audio", Patterns: []string{"*.wav", "*.mp3", "*.flac"}},
	}
)

// ZenityDialogs shows the prompts with zenity.
type ZenityDialogs struct{}

func (ZenityDialogs) OpenImport(ctx context.Context) (string, persistence.Mode, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Import Events"),
		dataFilters,
		zenity.Context(ctx),
	)
	if err != nil {
		return "", 0, canceled(err)
	}

	choice, err := zenity.List("How should the imported events be merged?",
		[]string{persistence.Append.String(), persistence.Replace.String()},
		zenity.Title("Import Mode"),
		zenity.DefaultItems(persistence.Append.String()),
		zenity.Context(ctx),
	)
	if err != nil {
		return "", 0, canceled(err)
	}
	mode, err := persistence.ParseMode(choice)
	if err != nil {
		return "", 0, err
	}
	return path, mode, nil
}

func (ZenityDialogs) SaveExport(ctx context.Context) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Export Events"),
		zenity.Filename("events.json"),
		zenity.ConfirmOverwrite(),
		dataFilters,
		zenity.Context(ctx),
	)
	return path, canceled(err)
}

// EditEvent asks for each field in turn, starting from in.
func (ZenityDialogs) EditEvent(ctx context.Context, title string, in FormInput) (FormInput, error) {
	fields := []struct {
		prompt string
		value  *string
	}{
		{"Title", &in.Title},
		{"Age (years, or text such as \"Teens\")", &in.Age},
		{"Year (optional)", &in.Year},
		{"Types, comma separated (health, accident, natural, ...)", &in.Tags},
		{"Probability (0.001, 1e-6 or 1/1000)", &in.Probability},
		{"Description", &in.Description},
	}
	for _, f := range fields {
		v, err := zenity.Entry(f.prompt,
			zenity.Title(title),
			zenity.EntryText(*f.value),
			zenity.Context(ctx),
		)
		if err != nil {
			return FormInput{}, canceled(err)
		}
		*f.value = v
	}
	return in, nil
}

func (ZenityDialogs) ConfirmRemove(ctx context.Context, title string) (bool, error) {
	err := zenity.Question("Remove \""+title+"\"?",
		zenity.Title("Remove Event"),
		zenity.OKLabel("Remove"),
		zenity.WarningIcon,
		zenity.Context(ctx),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return err == nil, err
}

func (ZenityDialogs) OpenSoundtrack(ctx context.Context) (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		audioFilters,
		zenity.Context(ctx),
	)
	return path, canceled(err)
}

func canceled(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCanceled
	}
	return err
}
