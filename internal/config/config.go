// Package config loads goslice's on-disk configuration: Neo4j
// connection defaults for the optional graph-debug exporter and output
// preferences. TOML (BurntSushi/toml) is used for small tool configs.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"goslice/internal/errs"
)

// Config is the decoded shape of .goslice.toml.
type Config struct {
	Neo4j  Neo4jConfig `toml:"neo4j"`
	Output OutputConfig `toml:"output"`
}

// Neo4jConfig holds connection defaults for internal/graphdebug.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// OutputConfig holds default output preferences for the extract command.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration goslice falls back to when no
// config file is present.
func Default() Config {
	return Config{
		Neo4j: Neo4jConfig{
			URI:  "neo4j://localhost:7687",
			User: "neo4j",
		},
		Output: OutputConfig{Dir: "."},
	}
}

// Load reads path, overlaying its values onto Default(). A missing
// file is not an error: goslice runs fine with defaults alone.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errs.InvalidInput("failed to parse config %s: %v", path, err)
	}
	return cfg, nil
}
