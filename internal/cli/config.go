package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25
)

// Renderer names accepted by the renderer setting.
const (
	RendererText = "text"
	RendererBob  = "bob"
)

// Config represents the sqlcriteria configuration from sqlcriteria.yaml.
type Config struct {
	// Renderer selects the SQL renderer: text or bob.
	Renderer string `mapstructure:"renderer" json:"renderer"`

	Render RenderConfig `mapstructure:"render" json:"render"`
}

// RenderConfig holds render command settings.
type RenderConfig struct {
	AllowEmptyWhere bool `mapstructure:"allow_empty_where" json:"allow_empty_where"`
	Pretty          bool `mapstructure:"pretty" json:"pretty"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SQLCRITERIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, configPath, err
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("renderer", RendererText)
	v.SetDefault("render.allow_empty_where", false)
	v.SetDefault("render.pretty", true)
}

// Validate checks setting values.
func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererText, RendererBob:
		return nil
	default:
		return fmt.Errorf("renderer must be %q or %q, got %q", RendererText, RendererBob, c.Renderer)
	}
}

// ResolvedRenderer returns the renderer for a command, with a non-empty
// flag value taking precedence over the configured one.
func (c *Config) ResolvedRenderer(flag string) string {
	if flag != "" {
		return flag
	}
	return c.Renderer
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for sqlcriteria.yaml or
// sqlcriteria.yml, stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"sqlcriteria.yaml", "sqlcriteria.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		// Repo boundary (.git file or directory)
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}
