package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/status"
	"github.com/tessadover/gamelog/internal/vault"
	"github.com/tessadover/gamelog/pkg/frontmatter"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [note] [status]",
	Short: "Set the play status of a game note",
	Long: `Set the 'status' frontmatter field of a game note.

Both arguments are optional: without a note a fuzzy finder opens over the
games folder, without a status it opens over the status vocabulary. The
rest of the note's frontmatter keeps its formatting, comments, and order.

The built-in vocabulary (backlog, wishlist, playing, paused, completed,
dropped, shelved) can be replaced via the statuses_file config key.`,
	Example: `  # Fully interactive
  gamelog status

  # Pick the status interactively
  gamelog status "Outer Wilds"

  # Fully scripted
  gamelog status "Outer Wilds" completed

See Also: gamelog add, gamelog config`,
	Args: cobra.MaximumNArgs(2),
	RunE: runStatus,
}

func runStatus(c *cobra.Command, args []string) error {
	cfg, err := activeConfig()
	if err != nil {
		return err
	}
	v := openVault(cfg)

	schema, err := cfg.Statuses()
	if err != nil {
		return err
	}

	var note string
	if len(args) > 0 {
		note = args[0]
	} else {
		notes, err := v.Notes()
		if err != nil {
			return err
		}
		note, err = pickNote(notes)
		if err != nil {
			return err
		}
	}

	var target string
	if len(args) > 1 {
		target = args[1]
	} else {
		target, err = pickStatus(schema)
		if err != nil {
			return err
		}
	}

	return setNoteStatus(c.OutOrStdout(), v, schema, note, target)
}

// setNoteStatus validates target against the schema and writes it into the
// note's status field.
func setNoteStatus(w io.Writer, v *vault.Vault, schema status.Schema, note, target string) error {
	if !schema.Contains(target) {
		return errors.NewUserError(
			errors.Newf("unknown status %q", target),
			"Valid statuses: "+strings.Join(schema.Statuses, ", "))
	}

	changed, err := v.UpdateNote(note, func(doc *frontmatter.Document) error {
		doc.Fields.Set(status.Key, target)
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		fmt.Fprintf(w, "%s: status set to %s\n", vault.Stem(note), target)
	} else {
		fmt.Fprintf(w, "%s: status already %s\n", vault.Stem(note), target)
	}
	return nil
}
