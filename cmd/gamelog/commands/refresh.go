package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tessadover/gamelog/internal/igdb"
	"github.com/tessadover/gamelog/internal/vault"
	"github.com/tessadover/gamelog/pkg/frontmatter"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh catalog metadata for every game note",
	Long: `Look up every note in the games folder and refresh its catalog
metadata: the cover URL, and the title when the note has none.

Notes are processed one at a time, sharing a single cached catalog
credential. A failed lookup is logged and the batch continues; notes
whose metadata is already current are not rewritten.`,
	Example: `  # Refresh all notes
  gamelog refresh

  # See per-note lookup details
  gamelog refresh -v

See Also: gamelog cover, gamelog add`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func runRefresh(c *cobra.Command, _ []string) error {
	cfg, err := activeConfig()
	if err != nil {
		return err
	}
	return refreshAll(c.Context(), c.OutOrStdout(), openVault(cfg), newCatalog(cfg))
}

// refreshAll runs the sequential batch over every note in the vault.
func refreshAll(ctx context.Context, w io.Writer, v *vault.Vault, client *igdb.Client) error {
	notes, err := v.Notes()
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(w, "No game notes found.")
		return nil
	}

	var updated, unchanged, failed int
	for _, note := range notes {
		changed, err := refreshNote(ctx, v, client, note)
		switch {
		case err != nil:
			slog.Warn("refresh failed, continuing", "note", note, "error", err)
			failed++
		case changed:
			slog.Debug("refreshed", "note", note)
			updated++
		default:
			unchanged++
		}
	}

	fmt.Fprintf(w, "Refreshed %d note(s): %d updated, %d unchanged, %d failed\n",
		len(notes), updated, unchanged, failed)
	return nil
}

// refreshNote looks one note up and writes the fresh metadata back.
func refreshNote(ctx context.Context, v *vault.Vault, client *igdb.Client, note string) (bool, error) {
	doc, err := v.ReadNote(note)
	if err != nil {
		return false, err
	}

	game, err := client.Search(ctx, noteTitle(doc, note))
	if err != nil {
		return false, err
	}

	return v.UpdateNote(note, func(doc *frontmatter.Document) error {
		if game.CoverURL != "" {
			doc.Fields.Set("cover", game.CoverURL)
		}
		if !doc.Fields.Has("title") && game.Name != "" {
			doc.Fields.Set("title", game.Name)
		}
		return nil
	})
}
