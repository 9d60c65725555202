package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ReadConfigFile reads a generation config from a YAML (.yaml, .yml) or TOML
// (.toml) file. Relative model and output paths are taken relative to the
// directory of the file.
func ReadConfigFile(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := NewConfig()
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(buf, c)
	case ".toml":
		err = toml.Unmarshal(buf, c)
	default:
		return nil, NewConfigError("config", path, "unsupported config file extension "+ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, m := range c.Models {
		c.Models[i] = resolvePath(dir, m)
	}
	for i, t := range c.Targets {
		if !t.Stdout() {
			c.Targets[i].Output = resolvePath(dir, t.Output)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// resolvePath joins relative file paths to dir. Absolute paths and data
// source URLs are kept.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(dir, path)
}
