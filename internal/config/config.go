// Package config provides configuration management for gamelog using Viper.
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/paths"
	"github.com/tessadover/gamelog/internal/status"
	"github.com/tessadover/gamelog/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "gamelog"

// Cover size tokens accepted by the catalog's image CDN.
const (
	CoverSizeSmall = "t_cover_small"
	CoverSizeBig   = "t_cover_big"
	CoverSize720p  = "t_720p"
	CoverSize1080p = "t_1080p"
)

// Config represents the top-level configuration structure.
type Config struct {
	// Vault is the root directory of the markdown vault.
	Vault string `mapstructure:"vault" yaml:"vault"`

	// GamesFolder is the vault-relative folder holding game notes.
	GamesFolder string `mapstructure:"games_folder" yaml:"games_folder"`

	// ClientID and ClientSecret are the catalog API credentials.
	// The secret is usually supplied via GAMELOG_CLIENT_SECRET or a .env
	// file rather than stored in config.yaml.
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret,omitempty"`

	// CoverSize is the image size token used when building cover URLs.
	CoverSize string `mapstructure:"cover_size" yaml:"cover_size"`

	// StatusesFile optionally points at a TOML file overriding the built-in
	// status vocabulary.
	StatusesFile string `mapstructure:"statuses_file" yaml:"statuses_file,omitempty"`
}

// Init initializes Viper with defaults and environment binding.
// Call this once at application startup before accessing config values.
func Init() {
	// Credentials may live in a .env next to the working directory; load it
	// before the environment is read. Missing files are fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("GAMELOG")
	viper.AutomaticEnv()

	viper.SetDefault("vault", "")
	viper.SetDefault("games_folder", "Games")
	viper.SetDefault("client_id", "")
	viper.SetDefault("client_secret", "")
	viper.SetDefault("cover_size", CoverSizeBig)
	viper.SetDefault("statuses_file", "")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If the user specified a path, this is an error; on implicit
			// load it's fine to use defaults and environment values.
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// Save writes the configuration to path atomically.
func Save(cfg *Config, path string) error {
	return fileutil.AtomicWriteYAML(path, cfg)
}

// Statuses returns the status schema for this configuration: the override
// file when set, the built-in vocabulary otherwise.
func (c *Config) Statuses() (status.Schema, error) {
	if c.StatusesFile == "" {
		return status.Default(), nil
	}
	return status.Load(c.StatusesFile)
}

// HasCredentials reports whether both catalog credentials are present.
func (c *Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
