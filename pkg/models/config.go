package models

import "time"

// Config represents the application configuration
type Config struct {
	CDN        string `mapstructure:"cdn" yaml:"cdn" json:"cdn"`
	RemoteRoot string `mapstructure:"remote_root" yaml:"remote_root" json:"remote_root"`
	CacheDir   string `mapstructure:"cache_dir" yaml:"cache_dir" json:"cache_dir"`
	PageSize   int    `mapstructure:"page_size" yaml:"page_size" json:"page_size"`
	Lang       string `mapstructure:"lang" yaml:"lang" json:"lang"`
	// VerifyChecksum compares downloads against the manifest's sha256
	VerifyChecksum bool       `mapstructure:"verify_checksum" yaml:"verify_checksum" json:"verify_checksum"`
	HTTP           HTTPConfig `mapstructure:"http" yaml:"http" json:"http"`
	Log            LogConfig  `mapstructure:"log" yaml:"log" json:"log"`
}

// HTTPConfig contains HTTP client settings
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent" json:"user_agent"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // console, json
}
