package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessadover/gamelog/internal/config"
	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/paths"
)

// initForce holds the value of the -f/--force flag.
var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gamelog configuration",
	Long: `Create ~/.config/gamelog/config.yaml interactively.

Asks for the vault root and, optionally, the Twitch developer credentials
used for catalog lookups. The client secret is read without echo and can
also be supplied later via GAMELOG_CLIENT_SECRET or a .env file, which
takes precedence over the config file.`,
	Example: `  # Initialize with interactive prompts
  gamelog init

  # Force overwrite existing configuration
  gamelog init --force

  See Also: gamelog config, gamelog doctor`,
	RunE: runInit,
}

func runInit(c *cobra.Command, _ []string) error {
	w := c.OutOrStdout()
	configPath := paths.ConfigFile()

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	reader := bufio.NewReader(c.InOrStdin())

	vaultPath, err := promptLine(reader, w, "Vault root: ")
	if err != nil {
		return err
	}
	if vaultPath == "" {
		return errors.NewUserError(errors.New("vault root is required"),
			"Pass the directory that holds your markdown vault")
	}

	gamesFolder, err := promptLine(reader, w, "Games folder inside the vault [Games]: ")
	if err != nil {
		return err
	}
	if gamesFolder == "" {
		gamesFolder = "Games"
	}

	clientID, err := promptLine(reader, w, "Twitch client id (optional): ")
	if err != nil {
		return err
	}

	var clientSecret string
	if clientID != "" {
		clientSecret, err = promptSecret(reader, w, "Twitch client secret (hidden): ")
		if err != nil {
			return err
		}
	}

	newCfg := &config.Config{
		Vault:        vaultPath,
		GamesFolder:  gamesFolder,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		CoverSize:    config.CoverSizeBig,
	}

	if err := paths.EnsureDir(paths.ConfigDir(), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := config.Save(newCfg, configPath); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	if clientSecret != "" {
		fmt.Fprintln(w, "Note: GAMELOG_CLIENT_SECRET overrides the stored secret.")
	}
	return nil
}

// promptLine asks for one line of input and returns it trimmed. EOF on an
// empty prompt counts as an empty answer.
func promptLine(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a secret without echo when stdin is a terminal, and
// falls back to a plain line read otherwise (pipes, tests).
func promptSecret(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(reader, w, label)
	}

	fmt.Fprint(w, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.Wrap(err, "reading secret")
	}
	return strings.TrimSpace(string(secret)), nil
}
