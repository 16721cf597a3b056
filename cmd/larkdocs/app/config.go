package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/larkdocs/internal/server"
	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// Config holds the application configuration loaded from the config
// file, environment variables and .env files.
type Config struct {
	// Lark app credentials
	AppID     string   `mapstructure:"app_id"`
	AppSecret string   `mapstructure:"app_secret"`
	BaseURL   string   `mapstructure:"base_url"`
	JSAPIList []string `mapstructure:"js_api_list"`

	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// ServerConfig holds the signing service settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PathPrefix      string        `mapstructure:"path_prefix"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	APIKey          string        `mapstructure:"api_key"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string][]string{
	"app_id":                  {"LARK_APP_ID"},
	"app_secret":              {"LARK_APP_SECRET"},
	"base_url":                {"LARK_BASE_URL"},
	"js_api_list":             {"LARKDOCS_JS_API_LIST"},
	"server.host":             {"LARKDOCS_HOST", "HTTP_HOST"},
	"server.port":             {"LARKDOCS_PORT", "HTTP_PORT"},
	"server.path_prefix":      {"LARKDOCS_PATH_PREFIX"},
	"server.cors_origins":     {"LARKDOCS_CORS_ORIGINS"},
	"server.api_key":          {"LARKDOCS_API_KEY"},
	"server.rate_limit":       {"LARKDOCS_RATE_LIMIT"},
	"server.refresh_interval": {"LARKDOCS_REFRESH_INTERVAL"},
	"log.level":               {"LOG_LEVEL"},
	"log.format":              {"LOG_FORMAT"},
	"log.output":              {"LOG_OUTPUT"},
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (applied later by the commands)
//  2. Environment variables
//  3. .env.local, then .env
//  4. Config file (path, or .larkdocs.yaml in the working or home directory)
//  5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.NewConfigError("config", "bind "+key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".larkdocs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "read "+configName(path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("config", "decode "+configName(path), err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.JSAPIList = splitList(cfg.JSAPIList)
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := server.DefaultConfig()
	v.SetDefault("base_url", constants.LarkBaseURL)
	v.SetDefault("server.host", d.Host)
	v.SetDefault("server.port", d.Port)
	v.SetDefault("server.path_prefix", d.PathPrefix)
	v.SetDefault("server.rate_limit", d.RateLimit)
	v.SetDefault("server.refresh_interval", d.RefreshInterval)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// loadEnvFiles loads .env files. Existing variables are never overridden,
// so .env.local is read first to take precedence over .env.
func loadEnvFiles() {
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}
}

// splitList flattens comma separated entries and drops empty ones.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func configName(path string) string {
	if path == "" {
		return "config file"
	}
	return filepath.Base(path)
}

// HasCredentials reports whether both app id and secret are set.
func (c *Config) HasCredentials() bool {
	return c.AppID != "" && c.AppSecret != ""
}

// ServerConfig builds the server settings from c.
func (c *Config) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.AppID = c.AppID
	cfg.JSAPIList = c.JSAPIList
	cfg.Host = c.Server.Host
	cfg.Port = c.Server.Port
	cfg.PathPrefix = c.Server.PathPrefix
	cfg.RateLimit = c.Server.RateLimit
	cfg.RefreshInterval = c.Server.RefreshInterval
	if len(c.Server.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = c.Server.CORSOrigins
	}
	if c.Server.APIKey != "" {
		cfg.AuthEnabled = true
		cfg.APIKey = c.Server.APIKey
	}
	return cfg
}
