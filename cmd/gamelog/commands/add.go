package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tessadover/gamelog/internal/cli/prompt"
	"github.com/tessadover/gamelog/internal/config"
	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/igdb"
	"github.com/tessadover/gamelog/internal/status"
	"github.com/tessadover/gamelog/internal/vault"
	"github.com/tessadover/gamelog/pkg/frontmatter"
)

// addFirst holds the value of the --first flag.
var addFirst bool

func init() {
	addCmd.Flags().BoolVar(&addFirst, "first", false,
		"take the best-ranked match without prompting")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a game note from a catalog search",
	Long: `Search the IGDB catalog for a game and create a note for it in the
games folder.

The new note gets the catalog's display name as 'title', the schema's
first status (backlog by default), and the cover URL when the catalog
has one. When several entries match, a numbered prompt asks which one
you meant; --first takes the most popular match without asking.`,
	Example: `  # Add a game, choosing among matches
  gamelog add "ori"

  # Take the best match without prompting
  gamelog add "Outer Wilds" --first

See Also: gamelog status, gamelog cover`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(c *cobra.Command, args []string) error {
	cfg, err := activeConfig()
	if err != nil {
		return err
	}
	return addGame(c.Context(), c.OutOrStdout(), prompt.NewSelector(),
		cfg, openVault(cfg), newCatalog(cfg), args[0], addFirst)
}

// addGame searches the catalog for name and creates the chosen note.
func addGame(ctx context.Context, w io.Writer, selector *prompt.Selector,
	cfg *config.Config, v *vault.Vault, client *igdb.Client, name string, first bool) error {

	games, err := client.Candidates(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "searching for %q", name)
	}

	var game *igdb.Game
	if first {
		game = &games[0]
	} else {
		game, err = selector.SelectGame(name, games)
		if err != nil {
			return err
		}
	}

	schema, err := cfg.Statuses()
	if err != nil {
		return err
	}

	doc := frontmatter.New()
	doc.Fields.Set("title", game.Name)
	doc.Fields.Set(status.Key, schema.DefaultStatus())
	if game.CoverURL != "" {
		doc.Fields.Set("cover", game.CoverURL)
	}

	noteName := vault.NoteName(game.Name)
	if noteName == "" {
		noteName = vault.NoteName(name)
	}

	path, err := v.CreateNote(noteName, doc)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Created %s\n", path)
	return nil
}
