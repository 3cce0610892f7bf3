// Package config provides configuration loading for quickfire.
//
// Configuration is TOML. Discovery order: an explicit path, then
// ./quickfire.toml and ./.quickfire.toml in the working directory, then the
// global file under the user's XDG config directory. A missing configuration
// is not an error; built-in defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// AppDirName is the directory under the XDG config root holding the
	// global config and the usage store.
	AppDirName = "quickfire"

	// DefaultUsageWeight is the per-invocation ranking boost applied when
	// usage ranking is enabled and no weight is configured.
	DefaultUsageWeight = 8000

	defaultJustfilePath = "justfile"

	// FileModeDir is the permission for created directories (rwxr-xr-x).
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for written files (rw-r--r--).
	FileModeFile os.FileMode = 0644
)

// Config is the fully-normalized quickfire configuration.
type Config struct {
	Providers ProvidersConfig
	Ranking   RankingConfig
	Commands  []CommandConfig
}

// Loaded couples a parsed configuration with the path it came from.
// Path is empty when no config file was found and defaults apply.
type Loaded struct {
	Config Config
	Path   string
}

// RankingConfig controls usage-based ranking boosts.
type RankingConfig struct {
	UsageEnabled bool
	UsageWeight  int64
}

// ProviderConfig is the normalized per-provider configuration. Path and
// Options are only meaningful for the justfile provider.
type ProviderConfig struct {
	Enabled bool
	Alias   string
	Path    string
	Options []string
}

// ProvidersConfig holds the configuration for every catalog provider.
type ProvidersConfig struct {
	Config   ProviderConfig
	Artisan  ProviderConfig
	Composer ProviderConfig
	Justfile ProviderConfig
}

// CommandConfig is a hand-written command from the [[commands]] blocks.
type CommandConfig struct {
	Name        string        `toml:"name"`
	Run         string        `toml:"run"`
	Cmd         string        `toml:"cmd"`
	Description string        `toml:"description"`
	Scopes      []string      `toml:"scopes"`
	Params      []ParamConfig `toml:"params"`
	WorkingDir  string        `toml:"working_dir"`
}

// Template returns the command template, honoring the legacy "cmd" key.
func (c CommandConfig) Template() string {
	if c.Run != "" {
		return c.Run
	}
	return c.Cmd
}

// ParamConfig is a parameter declaration inside a [[commands.params]] block.
// Default and Value accept either a TOML string or boolean.
type ParamConfig struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Prompt      string `toml:"prompt"`
	Placeholder string `toml:"placeholder"`
	Default     any    `toml:"default"`
	Value       any    `toml:"value"`
	Required    bool   `toml:"required"`
}

// rawConfig is the wire shape before provider normalization. Provider
// sections accept both the table form and a legacy bare boolean.
type rawConfig struct {
	Providers map[string]any  `toml:"providers"`
	Ranking   *rawRanking     `toml:"ranking"`
	Commands  []CommandConfig `toml:"commands"`
}

type rawRanking struct {
	UsageEnabled *bool  `toml:"usage_enabled"`
	UsageWeight  *int64 `toml:"usage_weight"`
}

// Default returns the built-in configuration used when no file is found.
func Default() Config {
	return Config{
		Providers: ProvidersConfig{
			Justfile: ProviderConfig{Path: defaultJustfilePath},
		},
		Ranking: RankingConfig{
			UsageEnabled: true,
			UsageWeight:  DefaultUsageWeight,
		},
	}
}

// Load discovers and parses the configuration. When explicitPath is set it is
// used directly and a parse failure is fatal to the caller.
func Load(cwd, explicitPath string) (*Loaded, error) {
	if explicitPath != "" {
		cfg, err := loadFromPath(explicitPath)
		if err != nil {
			return nil, err
		}
		return &Loaded{Config: cfg, Path: explicitPath}, nil
	}

	local := []string{
		filepath.Join(cwd, "quickfire.toml"),
		filepath.Join(cwd, ".quickfire.toml"),
	}
	for _, path := range local {
		if fileExists(path) {
			cfg, err := loadFromPath(path)
			if err != nil {
				return nil, err
			}
			return &Loaded{Config: cfg, Path: path}, nil
		}
	}

	global, err := GlobalConfigPath()
	if err == nil && fileExists(global) {
		cfg, err := loadFromPath(global)
		if err != nil {
			return nil, err
		}
		return &Loaded{Config: cfg, Path: global}, nil
	}

	return &Loaded{Config: Default()}, nil
}

// Parse parses raw TOML into a normalized Config.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if raw.Ranking != nil {
		if raw.Ranking.UsageEnabled != nil {
			cfg.Ranking.UsageEnabled = *raw.Ranking.UsageEnabled
		}
		if raw.Ranking.UsageWeight != nil {
			cfg.Ranking.UsageWeight = *raw.Ranking.UsageWeight
		}
	}
	cfg.Commands = raw.Commands

	for name, value := range raw.Providers {
		provider, err := normalizeProvider(name, value)
		if err != nil {
			return Config{}, err
		}
		switch name {
		case "config":
			cfg.Providers.Config = provider
		case "artisan":
			cfg.Providers.Artisan = provider
		case "composer":
			cfg.Providers.Composer = provider
		case "justfile":
			if provider.Path == "" {
				provider.Path = defaultJustfilePath
			}
			cfg.Providers.Justfile = provider
		default:
			return Config{}, fmt.Errorf("unknown provider %q in configuration", name)
		}
	}

	return cfg, nil
}

// normalizeProvider accepts either `providers.name = true` or a full
// `[providers.name]` table.
func normalizeProvider(name string, value any) (ProviderConfig, error) {
	switch v := value.(type) {
	case bool:
		return ProviderConfig{Enabled: v}, nil
	case map[string]any:
		provider := ProviderConfig{}
		if enabled, ok := v["enabled"].(bool); ok {
			provider.Enabled = enabled
		}
		if alias, ok := v["alias"].(string); ok {
			provider.Alias = alias
		}
		if path, ok := v["path"].(string); ok {
			provider.Path = path
		}
		options, err := normalizeOptions(v["options"])
		if err != nil {
			return ProviderConfig{}, fmt.Errorf("provider %q: %w", name, err)
		}
		provider.Options = options
		return provider, nil
	default:
		return ProviderConfig{}, fmt.Errorf("provider %q must be a boolean or a table", name)
	}
}

// normalizeOptions accepts a single string or a list of strings.
func normalizeOptions(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		options := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("options entries must be strings, got %T", item)
			}
			options = append(options, s)
		}
		return options, nil
	default:
		return nil, fmt.Errorf("options must be a string or a list of strings, got %T", value)
	}
}

// AliasMap validates provider aliases and returns the mapping from
// normalized alias to provider name. Empty and duplicate aliases are
// configuration errors, fatal at load time.
func (p ProvidersConfig) AliasMap() (map[string]string, error) {
	aliases := make(map[string]string)
	for _, entry := range []struct {
		provider string
		alias    string
		declared bool
	}{
		{"config", p.Config.Alias, p.Config.Alias != ""},
		{"artisan", p.Artisan.Alias, p.Artisan.Alias != ""},
		{"composer", p.Composer.Alias, p.Composer.Alias != ""},
		{"justfile", p.Justfile.Alias, p.Justfile.Alias != ""},
	} {
		if !entry.declared {
			continue
		}
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(entry.alias), ":"))
		if normalized == "" {
			return nil, fmt.Errorf("provider alias for %q cannot be empty", entry.provider)
		}
		if existing, ok := aliases[normalized]; ok {
			return nil, fmt.Errorf("provider alias %q is duplicated between %q and %q", normalized, existing, entry.provider)
		}
		aliases[normalized] = entry.provider
	}
	return aliases, nil
}

// GlobalConfigPath returns the per-user configuration file path, honoring
// XDG_CONFIG_HOME.
func GlobalConfigPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppDirName, "config.toml"), nil
}

// UsageStorePath returns the per-user usage counter file path.
func UsageStorePath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppDirName, "usage.toml"), nil
}

func configRoot() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to resolve user home directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOML in %s: %w", path, err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
