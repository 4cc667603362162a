/*
Package config manages TOML config for wordmap services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordmap/internal/utils"
	"github.com/bastiangx/wordmap/pkg/dictionary"
	"github.com/bastiangx/wordmap/pkg/prefixtree"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxQuery     int    `toml:"max_query"`
	DefaultTable string `toml:"default_table"`
	RejectMarker bool   `toml:"reject_marker"`
	CacheSize    int    `toml:"cache_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Dir     string   `toml:"dir"`
	Marker  string   `toml:"marker"`
	Formats []string `toml:"formats"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultTable     string `toml:"default_table"`
	DefaultDirection string `toml:"default_direction"`
	Transform        string `toml:"transform"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordmap
// 2. ~/Library/Application Support/wordmap (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return executableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordmap")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordmap")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	return executableDir()
}

func executableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordmap/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxQuery:     256,
			DefaultTable: "plural",
			RejectMarker: false,
			CacheSize:    1024,
		},
		Dict: DictConfig{
			Dir:     "data",
			Marker:  prefixtree.DefaultMarker,
			Formats: []string{"toml", "yaml", "json", "txt"},
		},
		CLI: CliConfig{
			DefaultTable:     "plural",
			DefaultDirection: "value",
			Transform:        "identity",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse picks up whatever sections and keys still parse
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.normalize()
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.ExtractString(data, "default_table"); ok {
		server.DefaultTable = val
	}
	if val, ok := utils.ExtractBool(data, "reject_marker"); ok {
		server.RejectMarker = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

// extractDictConfig extracts dictionary configuration from a map
func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		dict.Dir = val
	}
	if val, ok := utils.ExtractString(data, "marker"); ok {
		dict.Marker = val
	}
	if val, ok := utils.ExtractStrings(data, "formats"); ok {
		dict.Formats = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "default_table"); ok {
		cli.DefaultTable = val
	}
	if val, ok := utils.ExtractString(data, "default_direction"); ok {
		cli.DefaultDirection = val
	}
	if val, ok := utils.ExtractString(data, "transform"); ok {
		cli.Transform = val
	}
}

// normalize replaces values that cannot work with their defaults
func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Server.MaxQuery < 0 {
		log.Warnf("Invalid max_query %d, using %d", c.Server.MaxQuery, defaults.Server.MaxQuery)
		c.Server.MaxQuery = defaults.Server.MaxQuery
	}
	if c.Server.CacheSize < 0 {
		c.Server.CacheSize = 0
	}
	if c.Dict.Marker == "" {
		c.Dict.Marker = defaults.Dict.Marker
	}
	if c.CLI.DefaultDirection != "value" && c.CLI.DefaultDirection != "key" {
		log.Warnf("Invalid default_direction %q, using %q", c.CLI.DefaultDirection, defaults.CLI.DefaultDirection)
		c.CLI.DefaultDirection = defaults.CLI.DefaultDirection
	}
}

// DictFormats resolves the configured format names, skipping unknown ones
func (c *Config) DictFormats() []dictionary.FileFormat {
	var formats []dictionary.FileFormat
	for _, name := range c.Dict.Formats {
		format, ok := dictionary.ParseFormat(name)
		if !ok {
			log.Warnf("Ignoring unknown dictionary format %q", name)
			continue
		}
		formats = append(formats, format)
	}
	return formats
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
