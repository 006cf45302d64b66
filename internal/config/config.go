package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"hashbisect/internal/hash"
)

// DefaultPath is used when neither a flag nor HASHBISECT_CONFIG names a file.
const DefaultPath = "hashbisect.yaml"

// EnvPath names the environment variable that overrides DefaultPath.
const EnvPath = "HASHBISECT_CONFIG"

type Config struct {
	// Exclude patterns change digests, so both sides must agree on them.
	Exclude   []string   `yaml:"exclude"`
	Algorithm string     `yaml:"algorithm"`
	Workers   int        `yaml:"workers"`
	LogLevel  slog.Level `yaml:"log_level"`
	Progress  bool       `yaml:"progress"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:   []string{},
		Algorithm: string(hash.SHA1),
		Workers:   runtime.NumCPU(),
		LogLevel:  slog.LevelWarn,
		Progress:  true,
	}
}

// Validate canonicalises the algorithm name and checks the values that
// cannot be repaired silently.
func (c *Config) Validate() error {
	c.Algorithm = strings.ToLower(strings.TrimSpace(c.Algorithm))

	algorithms := make([]interface{}, 0, len(hash.Algorithms()))
	for _, a := range hash.Algorithms() {
		algorithms = append(algorithms, string(a))
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Algorithm, validation.Required, validation.In(algorithms...)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
	)
}

// HashAlgorithm returns the parsed Algorithm field.
func (c *Config) HashAlgorithm() (hash.Algorithm, error) {
	return hash.Parse(c.Algorithm)
}

// LoadConfig reads path on top of DefaultConfig. A missing file yields the
// defaults. Environment variables in the file are expanded.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// An explicit "exclude:" with no items leaves the slice nil
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
