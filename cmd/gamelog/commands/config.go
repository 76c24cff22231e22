package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tessadover/gamelog/internal/config"
	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/paths"
	"github.com/tessadover/gamelog/internal/redact"
	"github.com/tessadover/gamelog/pkg/fileutil"
)

// configKeys lists the keys config get/set accept.
var configKeys = []string{
	"vault",
	"games_folder",
	"client_id",
	"client_secret",
	"cover_size",
	"statuses_file",
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gamelog configuration",
	Long: `Manage gamelog configuration stored in ~/.config/gamelog/config.yaml.

Without a subcommand, lists all configuration values. Secret-looking
values are masked in output.`,
	Example: `  # List all configuration
  gamelog config

  # Get a specific value
  gamelog config get cover_size

  # Set a value
  gamelog config set cover_size t_720p

See Also: gamelog init, gamelog doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Secret-looking keys (like client_secret) are printed masked.`,
	Example: `  # Get the vault root
  gamelog config get vault

  # Get the cover size
  gamelog config get cover_size

See Also: gamelog config set, gamelog config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it to the config file.

cover_size is validated against the sizes the catalog's image CDN accepts
(t_cover_small, t_cover_big, t_720p, t_1080p).`,
	Example: `  # Point gamelog at a different vault
  gamelog config set vault ~/Documents/Vault

  # Use larger covers
  gamelog config set cover_size t_1080p

See Also: gamelog config get, gamelog config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format, with secrets masked.`,
	Example: `  # List all configuration
  gamelog config list

See Also: gamelog config get, gamelog config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR environment variable, or falls back to vi.
If no configuration file exists, prints an error suggesting to run 'gamelog init'.`,
	Example: `  # Open config in default editor
  gamelog config edit

  # Open with specific editor
  EDITOR=nano gamelog config edit

See Also: gamelog config list, gamelog init`,
	RunE: runConfigEdit,
}

func runConfigGet(c *cobra.Command, args []string) error {
	key := args[0]
	w := c.OutOrStdout()

	if !knownConfigKey(key) {
		return errors.NewUserError(errors.Newf("unknown config key %q", key),
			"Valid keys: "+strings.Join(configKeys, ", "))
	}

	value := viper.GetString(key)
	if value == "" {
		fmt.Fprintln(w, "not set")
		return nil
	}

	if redact.ShouldMask(key) {
		value = redact.Mask(value)
	}
	fmt.Fprintln(w, value)
	return nil
}

func runConfigSet(c *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	w := c.OutOrStdout()

	if !knownConfigKey(key) {
		return errors.NewUserError(errors.Newf("unknown config key %q", key),
			"Valid keys: "+strings.Join(configKeys, ", "))
	}

	if key == "cover_size" {
		switch value {
		case config.CoverSizeSmall, config.CoverSizeBig, config.CoverSize720p, config.CoverSize1080p:
		default:
			return errors.NewUserError(errors.Newf("invalid cover size %q", value),
				fmt.Sprintf("Valid sizes: %s, %s, %s, %s",
					config.CoverSizeSmall, config.CoverSizeBig, config.CoverSize720p, config.CoverSize1080p))
		}
	}

	viper.Set(key, value)
	if err := writeConfig(key == "client_secret"); err != nil {
		return err
	}

	shown := value
	if redact.ShouldMask(key) {
		shown = redact.Mask(value)
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, shown)
	return nil
}

func runConfigList(c *cobra.Command, _ []string) error {
	listing := map[string]string{}
	for _, key := range configKeys {
		value := viper.GetString(key)
		if redact.ShouldMask(key) && value != "" {
			value = redact.Mask(value)
		}
		listing[key] = value
	}

	data, err := yaml.Marshal(listing)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Fprint(c.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := paths.ConfigFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.Newf("config file not found at %s\nRun 'gamelog init' to create it", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}

	return nil
}

func knownConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

// writeConfig persists the current viper state to the config file. The
// client secret is written only when it was set explicitly, so a secret
// coming from the environment never leaks into the file.
func writeConfig(includeSecret bool) error {
	fileCfg := &config.Config{
		Vault:        viper.GetString("vault"),
		GamesFolder:  viper.GetString("games_folder"),
		ClientID:     viper.GetString("client_id"),
		CoverSize:    viper.GetString("cover_size"),
		StatusesFile: viper.GetString("statuses_file"),
	}
	if includeSecret {
		fileCfg.ClientSecret = viper.GetString("client_secret")
	}

	if err := paths.EnsureDir(paths.ConfigDir(), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(paths.ConfigFile(), fileCfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
