package commands

import (
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/tessadover/gamelog/internal/cli/prompt"
	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/status"
	"github.com/tessadover/gamelog/internal/vault"
)

// pickNote opens a fuzzy finder over the vault's game notes and returns the
// chosen note path (games-folder relative).
func pickNote(notes []string) (string, error) {
	if len(notes) == 0 {
		return "", errors.NewUserError(errors.New("no game notes found"),
			"Add your first game with 'gamelog add <name>'")
	}

	idx, err := fuzzyfinder.Find(notes, func(i int) string {
		return vault.Stem(notes[i])
	})
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", prompt.ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "picking note")
	}
	return notes[idx], nil
}

// pickStatus opens a fuzzy finder over the status vocabulary.
func pickStatus(schema status.Schema) (string, error) {
	idx, err := fuzzyfinder.Find(schema.Statuses, func(i int) string {
		return schema.Statuses[i]
	})
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", prompt.ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "picking status")
	}
	return schema.Statuses[idx], nil
}
