package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/version"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
	"github.com/huanfeng/wearhub-cli/pkg/community"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

const (
	// FileName is the config file name without extension
	FileName = "wearhub"
	// EnvPrefix prefixes environment overrides, e.g. WEARHUB_HTTP_TIMEOUT
	EnvPrefix = "WEARHUB"
)

// Default returns the built-in configuration
func Default() *models.Config {
	return &models.Config{
		CDN:        cdn.Raw.String(),
		RemoteRoot: community.DefaultRemoteRoot,
		CacheDir:   defaultCacheDir(),
		PageSize:   20,
		HTTP: models.HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: version.UserAgent(),
		},
		Log: models.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "wearhub")
	}
	return filepath.Join(os.TempDir(), "wearhub")
}

// Load loads configuration from file and environment. An explicit
// configPath must exist; otherwise wearhub.yaml is looked up in the current
// directory and ~/.config/wearhub, and its absence is not an error.
func Load(configPath string) (*models.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("cdn", def.CDN)
	v.SetDefault("remote_root", def.RemoteRoot)
	v.SetDefault("cache_dir", def.CacheDir)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("lang", def.Lang)
	v.SetDefault("verify_checksum", def.VerifyChecksum)
	v.SetDefault("http.timeout", def.HTTP.Timeout)
	v.SetDefault("http.user_agent", def.HTTP.UserAgent)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, hubErrors.WrapError(err, hubErrors.ErrorTypeConfiguration, hubErrors.CodeInvalidConfig, "failed to read config file").
				WithContext("path", configPath)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, hubErrors.WrapError(err, hubErrors.ErrorTypeConfiguration, hubErrors.CodeInvalidConfig, "failed to decode config")
	}

	cfg.CacheDir = expandHome(cfg.CacheDir)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func Validate(cfg *models.Config) error {
	switch {
	case cfg.PageSize <= 0:
		return hubErrors.NewConfigurationError(hubErrors.CodeInvalidConfig,
			fmt.Sprintf("page_size must be positive, got %d", cfg.PageSize))
	case cfg.HTTP.Timeout < 0:
		return hubErrors.NewConfigurationError(hubErrors.CodeInvalidConfig,
			fmt.Sprintf("http.timeout must not be negative, got %s", cfg.HTTP.Timeout))
	case cfg.Log.Format != "console" && cfg.Log.Format != "json":
		return hubErrors.NewConfigurationError(hubErrors.CodeInvalidConfig,
			fmt.Sprintf("log.format must be console or json, got %q", cfg.Log.Format))
	case strings.TrimSpace(cfg.CacheDir) == "":
		return hubErrors.NewConfigurationError(hubErrors.CodeInvalidConfig, "cache_dir must not be empty")
	}
	return nil
}

// expandHome expands a leading ~ in paths
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

var templateComments = map[string]string{
	"cdn":             "Mirror for GitHub raw content: raw, astrobox, astrobox_waterflames, ghfast, ghproxy",
	"remote_root":     "Repository root holding index_v2.csv, devices_v2.json and explore_v2.json",
	"cache_dir":       "Downloads are stored under <cache_dir>/community/official_v2/<item>/",
	"page_size":       "Items per page for list and search",
	"lang":            "Interface language (en, zh); empty follows the system locale",
	"verify_checksum": "Compare downloads with the sha256 published in the manifest",
	"http":            "HTTP client settings",
	"log":             "Logging: level is debug, info, warn or error; format is console or json",
}

// SaveTemplate writes the default configuration with comments to path
func SaveTemplate(path string) error {
	var doc yaml.Node
	if err := doc.Encode(Default()); err != nil {
		return fmt.Errorf("failed to encode config template: %w", err)
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i]
		if comment, ok := templateComments[key.Value]; ok {
			key.HeadComment = comment
		}
	}
	file := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "WearHub configuration file\nEnvironment variables prefixed with " + EnvPrefix + "_ override these values",
		Content:     []*yaml.Node{&doc},
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal config template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return hubErrors.NewFileSystemError(err, "failed to create config directory").WithContext("path", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return hubErrors.NewFileSystemError(err, "failed to write config template").WithContext("path", path)
	}
	return nil
}
