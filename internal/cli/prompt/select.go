// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/igdb"
)

// Sentinel errors for candidate selection.
var (
	ErrNoCandidates       = errors.New("no candidates to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive candidate selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectGame prompts the user to choose one of the catalog matches for query.
//
// Returns:
//   - ErrNoCandidates if the list is empty
//   - The game if only one candidate exists (auto-selects without prompting)
//   - The selected game based on user input, defaulting to the first
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectGame(query string, games []igdb.Game) (*igdb.Game, error) {
	if len(games) == 0 {
		return nil, ErrNoCandidates
	}

	if len(games) == 1 {
		return &games[0], nil
	}

	fmt.Fprintf(s.writer, "Multiple matches found for %q:\n", query)
	for i, g := range games {
		fmt.Fprintf(s.writer, "  [%d] %s%s\n", i+1, g.Name, describe(g))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)

	if input == "" {
		return &games[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	if selection < 1 || selection > len(games) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(games))
	}

	return &games[selection-1], nil
}

// describe renders the hints shown next to a candidate's name.
func describe(g igdb.Game) string {
	var hints []string
	if g.Score > 0 {
		hints = append(hints, fmt.Sprintf("%.0f ratings", g.Score))
	}
	if g.CoverURL == "" {
		hints = append(hints, "no cover")
	}
	if len(hints) == 0 {
		return ""
	}
	return " (" + strings.Join(hints, ", ") + ")"
}
