// Package clibconfig loads the optional .clibate.yml project config,
// following the teacher's internal/node.Frontmatter / ParseFrontmatter
// pattern of decoding a small YAML document into a plain struct.
package clibconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the decoded shape of .clibate.yml. Every field is optional;
// zero values fall back to Default's.
type Config struct {
	// CommandTimeout bounds each test's command, e.g. "30s". Empty means
	// no timeout.
	CommandTimeout string `yaml:"command_timeout"`
	// Color is decoded from the file; nothing in clibate reads it.
	Color bool `yaml:"color"`
	// RegexEngine names the regex engine the `/`-marked condensed prefix
	// and REPLACE forms should compile with. Only "re2" (Go's regexp,
	// the default) is implemented; the field exists so a future engine
	// can be selected without a breaking config change.
	RegexEngine string `yaml:"regex_engine"`
}

// Default is the configuration used when no .clibate.yml is present.
func Default() Config {
	return Config{CommandTimeout: "", Color: true, RegexEngine: "re2"}
}

// Load reads and decodes path. A missing file is not an error: it
// returns Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Timeout parses CommandTimeout, returning zero (no timeout) when unset.
func (c Config) Timeout() (time.Duration, error) {
	if c.CommandTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid command_timeout %q: %w", c.CommandTimeout, err)
	}
	return d, nil
}
