package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the ambient owpib configuration, read once at startup from
// $OWPIB_HOME/config.toml. Every field has a default; the file is optional.
type Config struct {
	DefaultRegistry string `toml:"default-registry"`
	RootFSSize      int    `toml:"rootfs-size,omitempty"` // MB, 0 leaves the ImageBuilder default
	BuildJobs       int    `toml:"build-jobs,omitempty"`
	CustomFeedDir   string `toml:"custom-feed-dir,omitempty"`
	PatchesDir      string `toml:"patches-dir,omitempty"`
	FilesDir        string `toml:"files-dir,omitempty"`
}

func Default() Config {
	return Config{
		DefaultRegistry: "docker.io",
		BuildJobs:       runtime.NumCPU(),
		CustomFeedDir:   "custom-feed",
		PatchesDir:      "patches",
		FilesDir:        "files",
	}
}

// Read loads the config at path over the defaults. A missing file is not an
// error; a file that exists but does not parse is.
func Read(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return cfg, nil
}

// DefaultConfigPath returns the config file location, honoring $OWPIB_HOME.
func DefaultConfigPath() string {
	return filepath.Join(OwpibHome(), "config.toml")
}

func OwpibHome() string {
	if home := os.Getenv("OWPIB_HOME"); home != "" {
		return home
	}
	return filepath.Join(userHome(), ".owpib")
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
