package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration, loaded from environment
// variables with sensible defaults.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Backup struct {
		Dir    string `mapstructure:"dir"`
		Retain int    `mapstructure:"retain"`
	} `mapstructure:"backup"`
	Estimation struct {
		HoursPerDay float64 `mapstructure:"hours_per_day"`
	} `mapstructure:"estimation"`
	AllowList struct {
		Enforce  bool          `mapstructure:"enforce"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"allowlist"`
	Editor struct {
		Debounce   time.Duration `mapstructure:"debounce"`
		SessionTTL time.Duration `mapstructure:"session_ttl"`
	} `mapstructure:"editor"`
}

// Load reads configuration from the environment (prefix ADMIN_, dots become
// underscores, e.g. ADMIN_SERVER_ADDR) on top of defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8008")
	v.SetDefault("database.path", "accessibility-admin.db")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.retain", 10)
	v.SetDefault("estimation.hours_per_day", 8.0)
	v.SetDefault("allowlist.enforce", false)
	v.SetDefault("allowlist.cache_ttl", 30*time.Second)
	v.SetDefault("editor.debounce", 250*time.Millisecond)
	v.SetDefault("editor.session_ttl", 30*time.Minute)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
