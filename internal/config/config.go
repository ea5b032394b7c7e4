package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CrawlConfig configures website crawling.
type CrawlConfig struct {
	Concurrency int      `yaml:"concurrency" mapstructure:"concurrency"`
	DelaySecs   float64  `yaml:"delay_secs" mapstructure:"delay_secs"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts int      `yaml:"max_attempts" mapstructure:"max_attempts"`
	UserAgents  []string `yaml:"user_agents" mapstructure:"user_agents"`
}

// ProvidersConfig selects and configures the structured data providers.
// Enabled is ordered: the first entry is the primary source.
type ProvidersConfig struct {
	Enabled       []string         `yaml:"enabled" mapstructure:"enabled"`
	Crunchbase    ProviderEndpoint `yaml:"crunchbase" mapstructure:"crunchbase"`
	Pitchbook     ProviderEndpoint `yaml:"pitchbook" mapstructure:"pitchbook"`
	FixturePath   string           `yaml:"fixture_path" mapstructure:"fixture_path"`
	RatePerSec    float64          `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	MaxAttempts   int              `yaml:"max_attempts" mapstructure:"max_attempts"`
	TripThreshold int              `yaml:"trip_threshold" mapstructure:"trip_threshold"`
}

// ProviderEndpoint holds credentials for one HTTP provider.
type ProviderEndpoint struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// MatchConfig configures investor matching.
type MatchConfig struct {
	Backend     string  `yaml:"backend" mapstructure:"backend"`
	TokenBudget int     `yaml:"token_budget" mapstructure:"token_budget"`
	Limit       int     `yaml:"limit" mapstructure:"limit"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Google GenAI settings.
type GeminiConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ServerConfig configures the read API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Match backends.
const (
	BackendAnthropic = "anthropic"
	BackendGemini    = "gemini"
	BackendNone      = "none"
)

// AppName names the per-user config directory.
const AppName = "vcmatch"

// ConfigDir returns the per-user config directory, searched after the
// working directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(ConfigDir())

	// Environment
	v.SetEnvPrefix("VCMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("crawl.concurrency", 5)
	v.SetDefault("crawl.delay_secs", 5)
	v.SetDefault("crawl.timeout_secs", 10)
	v.SetDefault("crawl.max_attempts", 3)
	v.SetDefault("crawl.user_agents", []string{})
	v.SetDefault("providers.enabled", []string{"crunchbase", "pitchbook"})
	v.SetDefault("providers.crunchbase.key", "")
	v.SetDefault("providers.crunchbase.base_url", "https://api.crunchbase.com/api/v4")
	v.SetDefault("providers.pitchbook.key", "")
	v.SetDefault("providers.pitchbook.base_url", "https://api.pitchbook.com/v1")
	v.SetDefault("providers.fixture_path", "")
	v.SetDefault("providers.rate_per_sec", 5)
	v.SetDefault("providers.max_attempts", 3)
	v.SetDefault("providers.trip_threshold", 5)
	v.SetDefault("match.backend", BackendAnthropic)
	v.SetDefault("match.token_budget", 3500)
	v.SetDefault("match.limit", 5)
	v.SetDefault("match.temperature", 0.3)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2000)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. Missing reasoning
// credentials are not an error: matching falls back to keyword scoring.
func (c *Config) Validate(command string) error {
	var problems []string
	switch command {
	case "enrich":
		if c.Crawl.Concurrency <= 0 {
			problems = append(problems, "crawl.concurrency must be positive")
		}
		if c.Crawl.DelaySecs < 0 {
			problems = append(problems, "crawl.delay_secs must not be negative")
		}
		for _, name := range c.Providers.Enabled {
			if !slices.Contains([]string{"crunchbase", "pitchbook", "fixture"}, name) && c.Providers.FixturePath == "" {
				problems = append(problems, "providers.enabled: unknown provider "+name)
			}
		}
	case "match", "advise", "serve":
		switch c.Match.Backend {
		case BackendAnthropic, BackendGemini, BackendNone:
		default:
			problems = append(problems, "match.backend must be anthropic, gemini or none")
		}
		if c.Match.TokenBudget <= 0 {
			problems = append(problems, "match.token_budget must be positive")
		}
	}
	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", command, strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
