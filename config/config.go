// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration root.
type Config struct {
	Provider string        `mapstructure:"provider"`
	Gemini   GeminiConfig  `mapstructure:"gemini"`
	OpenAI   OpenAIConfig  `mapstructure:"openai"`
	Proxy    ProxyConfig   `mapstructure:"proxy"`
	Server   ServerConfig  `mapstructure:"server"`
	Store    StoreConfig   `mapstructure:"store"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// GeminiConfig configures the direct Gemini backend. The API key is read
// from the environment variable named by APIKeyEnv; it is never stored in
// config files or source.
type GeminiConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	APIKeyEnv string `mapstructure:"api_key_env"`
}

// OpenAIConfig configures the OpenAI-compatible backend.
type OpenAIConfig struct {
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
}

// ProxyConfig configures the proxy-client backend.
type ProxyConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ServerConfig configures the proxy server mode.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MetricsEnabled bool     `mapstructure:"metrics_enabled"`
}

// StoreConfig selects and configures the key/value store backend.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // file | redis
	DataDir string      `mapstructure:"data_dir"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the optional Redis store backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration in priority order: defaults, then an optional
// config.yaml next to the binary, then environment variables
// (COLLEGEPREP_SERVER_ADDR overrides server.addr, and so on).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		path = "config.yaml"
	}
	if content, err := os.ReadFile(path); err == nil {
		if err := v.ReadConfig(strings.NewReader(string(content))); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}

	v.SetEnvPrefix("collegeprep")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// GeminiAPIKey resolves the Gemini credential from the environment.
func (c *Config) GeminiAPIKey() string {
	return os.Getenv(c.Gemini.APIKeyEnv)
}

// OpenAIAPIKey resolves the OpenAI credential from the environment.
func (c *Config) OpenAIAPIKey() string {
	return os.Getenv(c.OpenAI.APIKeyEnv)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "gemini")

	v.SetDefault("gemini.endpoint",
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent")
	v.SetDefault("gemini.api_key_env", "GEMINI_API_KEY")

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.api_key_env", "OPENAI_API_KEY")

	v.SetDefault("proxy.base_url", "http://localhost:8080")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.metrics_enabled", true)

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.data_dir", defaultDataDir())
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".collegeprep"
	}
	return home + string(os.PathSeparator) + ".collegeprep"
}
