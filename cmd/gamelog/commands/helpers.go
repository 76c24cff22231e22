package commands

import (
	"log/slog"

	"github.com/tessadover/gamelog/internal/config"
	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/igdb"
	"github.com/tessadover/gamelog/internal/vault"
	"github.com/tessadover/gamelog/pkg/frontmatter"
)

// activeConfig returns the loaded configuration after validating it.
// Commands that touch the vault or the catalog go through here.
func activeConfig() (*config.Config, error) {
	if cfg == nil {
		return nil, errors.NewConfigError(errors.New("configuration not loaded"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewUserError(err, "Run 'gamelog init' to create a configuration")
	}
	return cfg, nil
}

// openVault builds the vault handle for the configured games folder.
func openVault(cfg *config.Config) *vault.Vault {
	return vault.New(cfg.Vault, cfg.GamesFolder, slog.Default())
}

// newCatalog builds the IGDB client from the configured credentials.
func newCatalog(cfg *config.Config) *igdb.Client {
	return igdb.New(igdb.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		CoverSize:    cfg.CoverSize,
		Logger:       slog.Default(),
	})
}

// noteTitle returns the note's display title: the frontmatter title field
// when present, the file stem otherwise.
func noteTitle(doc *frontmatter.Document, note string) string {
	if t := doc.Fields.GetString("title"); t != "" {
		return t
	}
	return vault.Stem(note)
}
