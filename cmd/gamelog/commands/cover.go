package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/igdb"
	"github.com/tessadover/gamelog/internal/vault"
	"github.com/tessadover/gamelog/pkg/frontmatter"
)

// coverThumbnail holds the value of the --thumbnail flag.
var coverThumbnail bool

func init() {
	coverCmd.Flags().BoolVar(&coverThumbnail, "thumbnail", false,
		"use the small cover size instead of the configured one")
	rootCmd.AddCommand(coverCmd)
}

var coverCmd = &cobra.Command{
	Use:   "cover [note]",
	Short: "Fetch cover art for a game note",
	Long: `Look up a game note in the IGDB catalog and store the cover image URL
in its 'cover' frontmatter field.

The lookup uses the note's 'title' field, falling back to the file name.
When several catalog entries match, the most popular one wins. If the
stored cover already matches, the note is left untouched.`,
	Example: `  # Fetch cover art, picking the note interactively
  gamelog cover

  # Fetch cover art for a specific note
  gamelog cover "Outer Wilds"

  # Store a small thumbnail instead
  gamelog cover "Outer Wilds" --thumbnail

See Also: gamelog refresh, gamelog add`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCover,
}

func runCover(c *cobra.Command, args []string) error {
	cfg, err := activeConfig()
	if err != nil {
		return err
	}
	v := openVault(cfg)

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

	return fetchCover(c.Context(), c.OutOrStdout(), v, newCatalog(cfg), note, coverThumbnail)
}

// fetchCover looks the note's title up in the catalog and writes the cover
// URL into the note.
func fetchCover(ctx context.Context, w io.Writer, v *vault.Vault, client *igdb.Client, note string, thumbnail bool) error {
	doc, err := v.ReadNote(note)
	if err != nil {
		return err
	}
	title := noteTitle(doc, note)

	var game *igdb.Game
	if thumbnail {
		game, err = client.SearchThumbnail(ctx, title)
	} else {
		game, err = client.Search(ctx, title)
	}
	if err != nil {
		return errors.Wrapf(err, "looking up %q", title)
	}
	if game.CoverURL == "" {
		return errors.Newf("catalog has no cover for %q", game.Name)
	}

	changed, err := v.UpdateNote(note, func(doc *frontmatter.Document) error {
		doc.Fields.Set("cover", game.CoverURL)
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		fmt.Fprintf(w, "%s: cover set to %s\n", vault.Stem(note), game.CoverURL)
	} else {
		fmt.Fprintf(w, "%s: cover already current\n", vault.Stem(note))
	}
	return nil
}
