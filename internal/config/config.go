// Package config loads runtime settings from an optional config file, a .env file
// and environment variables, and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "PROMPT_BUILDER"
	configName = "prompt-builder"
)

// LLM provider names
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
)

// Default model per provider
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOllamaModel    = "llama3.2"
	DefaultGeminiModel    = "gemini-2.0-flash"
)

var validate = validator.New()

// Config is the full runtime configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Client      ClientConfig      `mapstructure:"client"`
	Log         LogConfig         `mapstructure:"log"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
}

type ServerConfig struct {
	Port                  int             `mapstructure:"port" validate:"min=1,max=65535"`
	FrontendURL           string          `mapstructure:"frontend_url" validate:"omitempty,url"`
	AllowedOrigins        []string        `mapstructure:"allowed_origins" validate:"dive,url"`
	AllowedOriginPatterns []string        `mapstructure:"allowed_origin_patterns"`
	RateLimit             RateLimitConfig `mapstructure:"rate_limit"`
	ReadTimeout           time.Duration   `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout          time.Duration   `mapstructure:"write_timeout" validate:"gt=0"`
}

// RateLimitConfig caps requests per client IP. Requests of 0 disables limiting.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests" validate:"min=0"`
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"oneof=openai anthropic ollama gemini"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Temperature float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gt=0"`
}

type ClientConfig struct {
	APIURL        string        `mapstructure:"api_url" validate:"required,url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	FallbackDelay time.Duration `mapstructure:"fallback_delay" validate:"gte=0"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=dev development prod production"`
	File string `mapstructure:"file"`
}

// CredentialsConfig holds provider keys read from their conventional env vars
type CredentialsConfig struct {
	OpenAI    string `mapstructure:"openai"`
	Anthropic string `mapstructure:"anthropic"`
	Gemini    string `mapstructure:"gemini"`
}

// Options controls where Load looks for settings
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load reads .env, the config file and the environment into a validated Config
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.frontend_url", "")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.allowed_origin_patterns", []string{`(?i)\.vercel\.app$`})
	v.SetDefault("server.rate_limit.requests", 30)
	v.SetDefault("server.rate_limit.window", time.Minute)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 1024)

	v.SetDefault("client.api_url", "http://localhost:8080/api")
	v.SetDefault("client.timeout", 45*time.Second)
	v.SetDefault("client.fallback_delay", 3*time.Second)

	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.file", "")

	v.SetDefault("credentials.openai", "")
	v.SetDefault("credentials.anthropic", "")
	v.SetDefault("credentials.gemini", "")
}

// bindLegacyEnv maps the unprefixed variable names used by existing deployments
func bindLegacyEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"server.port", envPrefix + "_SERVER_PORT", "PORT"},
		{"server.frontend_url", envPrefix + "_SERVER_FRONTEND_URL", "FRONTEND_URL"},
		{"client.api_url", envPrefix + "_CLIENT_API_URL", "REACT_APP_API_URL"},
		{"credentials.openai", "OPENAI_API_KEY"},
		{"credentials.anthropic", "ANTHROPIC_API_KEY"},
		{"credentials.gemini", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("bind env %s: %w", b[0], err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = c.Credentials.forProvider(c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModelForProvider(c.LLM.Provider)
	}

	if u := strings.TrimRight(strings.TrimSpace(c.Server.FrontendURL), "/"); u != "" {
		c.Server.FrontendURL = u
		if !contains(c.Server.AllowedOrigins, u) {
			c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, u)
		}
	}
	c.Client.APIURL = strings.TrimRight(c.Client.APIURL, "/")
}

func (c CredentialsConfig) forProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderAnthropic:
		return c.Anthropic
	case ProviderGemini:
		return c.Gemini
	default:
		return ""
	}
}

// DefaultModelForProvider returns the default model for a given provider string.
func DefaultModelForProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaModel
	case ProviderGemini:
		return DefaultGeminiModel
	default:
		return ""
	}
}

// Validate checks struct tags and returns a readable error listing every failing field
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
