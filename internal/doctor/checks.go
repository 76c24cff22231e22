package doctor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tessadover/gamelog/internal/config"
	"github.com/tessadover/gamelog/internal/vault"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a configuration validity check.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config-valid"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the configuration diagnostic check.
func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if err := c.cfg.Validate(); err != nil {
		result.Status = SeverityError
		result.Message = "configuration is invalid"
		result.Details = map[string]any{"error": err.Error()}
		result.FixHint = "run 'gamelog init' or fix config.yaml"
		return result
	}

	result.Status = SeverityPass
	result.Message = "configuration is valid"
	result.Details = map[string]any{
		"vault":        c.cfg.Vault,
		"games_folder": c.cfg.GamesFolder,
		"cover_size":   c.cfg.CoverSize,
	}
	return result
}

// VaultCheck verifies that the vault and its games folder exist and counts
// the notes inside.
type VaultCheck struct {
	vault *vault.Vault
}

var _ Check = (*VaultCheck)(nil)

// NewVaultCheck creates a vault accessibility check.
func NewVaultCheck(v *vault.Vault) *VaultCheck {
	return &VaultCheck{vault: v}
}

// Name returns the unique identifier for this check.
func (c *VaultCheck) Name() string {
	return "vault-accessible"
}

// Category returns the grouping for this check.
func (c *VaultCheck) Category() string {
	return "vault"
}

// Run executes the vault diagnostic check.
func (c *VaultCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	dir := c.vault.Dir()
	info, err := os.Stat(dir)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("games folder not found: %s", dir)
		result.FixHint = "check the 'vault' and 'games_folder' settings, or run 'gamelog add' to create the folder"
		return result
	}
	if !info.IsDir() {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("games folder is not a directory: %s", dir)
		return result
	}

	notes, err := c.vault.Notes()
	if err != nil {
		result.Status = SeverityError
		result.Message = "cannot list game notes"
		result.Details = map[string]any{"error": err.Error()}
		return result
	}

	if len(notes) == 0 {
		result.Status = SeverityInfo
		result.Message = "games folder is empty"
		result.FixHint = "add your first game with 'gamelog add <name>'"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("found %d game note(s)", len(notes))
	result.Details = map[string]any{"count": len(notes), "dir": dir}
	return result
}

// StatusesCheck validates the status vocabulary, including an override file
// when one is configured.
type StatusesCheck struct {
	cfg *config.Config
}

var _ Check = (*StatusesCheck)(nil)

// NewStatusesCheck creates a status schema check.
func NewStatusesCheck(cfg *config.Config) *StatusesCheck {
	return &StatusesCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *StatusesCheck) Name() string {
	return "statuses-valid"
}

// Category returns the grouping for this check.
func (c *StatusesCheck) Category() string {
	return "config"
}

// Run executes the status schema diagnostic check.
func (c *StatusesCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	schema, err := c.cfg.Statuses()
	if err != nil {
		result.Status = SeverityError
		result.Message = "status schema is invalid"
		result.Details = map[string]any{
			"file":  c.cfg.StatusesFile,
			"error": err.Error(),
		}
		result.FixHint = "fix or remove the statuses override file"
		return result
	}

	result.Status = SeverityPass
	if c.cfg.StatusesFile != "" {
		result.Message = fmt.Sprintf("custom status schema loaded from %s", c.cfg.StatusesFile)
	} else {
		result.Message = "using built-in status schema"
	}
	result.Details = map[string]any{"statuses": strings.Join(schema.Statuses, ", ")}
	return result
}

// credentialChecker is the part of the catalog client the doctor needs.
type credentialChecker interface {
	CheckCredentials(ctx context.Context) error
}

// CredentialsCheck performs a live token acquisition against the catalog's
// auth endpoint.
type CredentialsCheck struct {
	cfg    *config.Config
	client credentialChecker
}

var _ Check = (*CredentialsCheck)(nil)

// NewCredentialsCheck creates a catalog credentials check.
func NewCredentialsCheck(cfg *config.Config, client credentialChecker) *CredentialsCheck {
	return &CredentialsCheck{cfg: cfg, client: client}
}

// Name returns the unique identifier for this check.
func (c *CredentialsCheck) Name() string {
	return "catalog-credentials"
}

// Category returns the grouping for this check.
func (c *CredentialsCheck) Category() string {
	return "catalog"
}

// Run executes the credentials diagnostic check.
func (c *CredentialsCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if !c.cfg.HasCredentials() {
		result.Status = SeverityWarning
		result.Message = "catalog credentials are not configured"
		result.FixHint = "set client_id and GAMELOG_CLIENT_SECRET, or run 'gamelog init'"
		return result
	}

	if err := c.client.CheckCredentials(ctx); err != nil {
		result.Status = SeverityError
		result.Message = "catalog rejected the configured credentials"
		result.Details = map[string]any{"error": err.Error()}
		result.FixHint = "verify the client id and secret in your Twitch developer console"
		return result
	}

	result.Status = SeverityPass
	result.Message = "catalog credentials accepted"
	return result
}
