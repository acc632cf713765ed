package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// config holds user preferences loaded from the config file. Flags override
// anything set here.
type config struct {
	Render renderConfig `toml:"render"`
}

// renderConfig holds defaults for the render command.
type renderConfig struct {
	// DPI is the raster resolution for PNG output.
	DPI int `toml:"dpi"`
	// Formats is the default output format list, e.g. ["svg"].
	Formats []string `toml:"formats"`
}

// defaultConfig returns the built-in defaults applied when no config file
// exists or a field is unset.
func defaultConfig() config {
	return config{
		Render: renderConfig{
			DPI:     400,
			Formats: []string{"svg"},
		},
	}
}

// configPath returns the config file location using XDG standard
// (~/.config/arbor/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file, filling unset fields with defaults.
// A missing file is not an error; a malformed one is.
func loadConfig() (config, error) {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	loaded := config{}
	if _, err := toml.Decode(string(data), &loaded); err != nil {
		return cfg, err
	}
	if loaded.Render.DPI > 0 {
		cfg.Render.DPI = loaded.Render.DPI
	}
	if len(loaded.Render.Formats) > 0 {
		cfg.Render.Formats = loaded.Render.Formats
	}
	return cfg, nil
}
