// Package paths resolves gamelog's configuration locations via XDG.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// ConfigHome returns the base directory for user configuration files
// (usually ~/.config).
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the gamelog configuration directory
// (usually ~/.config/gamelog).
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "gamelog")
}

// ConfigFile returns the path of the main configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StatusesFile returns the default path of the status schema override file.
func StatusesFile() string {
	return filepath.Join(ConfigDir(), "statuses.toml")
}

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}
