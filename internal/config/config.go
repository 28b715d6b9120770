// Package config loads process configuration once at startup: built-in
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"triage-advisor/internal/agent"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	LLM       LLMConfig       `koanf:"llm"`
	Report    ReportConfig    `koanf:"report"`
	Telegram  TelegramConfig  `koanf:"telegram"`
	Lookup    LookupConfig    `koanf:"lookup"`
	Emergency EmergencyConfig `koanf:"emergency"`
	Log       LogConfig       `koanf:"log"`
	Downloads DownloadsConfig `koanf:"downloads"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
}

type LLMConfig struct {
	Provider    string        `koanf:"provider"`
	Model       string        `koanf:"model"`
	APIKey      string        `koanf:"api_key"`
	Temperature float64       `koanf:"temperature"`
	MaxRPM      int           `koanf:"max_rpm"`
	CallTimeout time.Duration `koanf:"call_timeout"`
	MaxTokens   int           `koanf:"max_tokens"`
}

type ReportConfig struct {
	// OutputPath is where each finished report is written as Markdown.
	// Empty disables the file sink.
	OutputPath string `koanf:"output_path"`
	FontPath   string `koanf:"font_path"`
}

type TelegramConfig struct {
	Token  string `koanf:"token"`
	ChatID int64  `koanf:"chat_id"`
}

// Enabled reports whether reports should be delivered to Telegram.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type LookupConfig struct {
	DataFile string `koanf:"data_file"`
}

type EmergencyConfig struct {
	Keywords []string `koanf:"keywords"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type DownloadsConfig struct {
	TTL  time.Duration `koanf:"ttl"`
	Size int           `koanf:"size"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		LLM: LLMConfig{
			Provider:    agent.ProviderGemini,
			Temperature: 0.7,
			MaxRPM:      15,
			CallTimeout: 60 * time.Second,
		},
		Log:       LogConfig{Level: "info"},
		Downloads: DownloadsConfig{TTL: time.Hour, Size: 256},
	}
}

// ConfigurationError is a startup-fatal configuration problem.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// Load reads the configuration and validates it. path may be empty.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read layers defaults, the YAML file at path (if any) and the environment
// without validating the result. Commands that never call the model use it.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
		}
		if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return nil, fmt.Errorf("failed to parse config from %q: %w", path, err)
		}
	}

	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.Report.OutputPath, "REPORT_OUTPUT_PATH")
	setString(&cfg.Report.FontPath, "REPORT_FONT_PATH")
	setString(&cfg.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Lookup.DataFile, "LOOKUP_DATA_FILE")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case agent.ProviderGemini:
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case agent.ProviderAnthropic:
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ConfigurationError{Key: "llm.temperature", Reason: fmt.Sprintf("LLM_TEMPERATURE %q is not a number", v)}
		}
		cfg.LLM.Temperature = f
	}
	if v := os.Getenv("LLM_MAX_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{Key: "llm.max_rpm", Reason: fmt.Sprintf("LLM_MAX_RPM %q is not an integer", v)}
		}
		cfg.LLM.MaxRPM = n
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &ConfigurationError{Key: "telegram.chat_id", Reason: fmt.Sprintf("TELEGRAM_CHAT_ID %q is not an integer", v)}
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

// placeholderKeys are the sample values shipped in .env templates.
var placeholderKeys = map[string]bool{
	"your_gemini_api_key_here":    true,
	"your_anthropic_api_key_here": true,
	"your_api_key_here":           true,
	"changeme":                    true,
}

// Validate checks everything the model client and the server need. The first
// problem found is returned as a *ConfigurationError.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case agent.ProviderGemini, agent.ProviderAnthropic:
	default:
		return &ConfigurationError{Key: "llm.provider", Reason: fmt.Sprintf("unsupported provider %q (use gemini or anthropic)", c.LLM.Provider)}
	}

	key := strings.TrimSpace(c.LLM.APIKey)
	if key == "" {
		return &ConfigurationError{Key: "llm.api_key", Reason: fmt.Sprintf("no API key set; export %s or set llm.api_key", apiKeyEnv(c.LLM.Provider))}
	}
	if placeholderKeys[strings.ToLower(key)] {
		return &ConfigurationError{Key: "llm.api_key", Reason: fmt.Sprintf("API key is still the placeholder %q", key)}
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return &ConfigurationError{Key: "llm.temperature", Reason: "must be between 0 and 2"}
	}
	if c.LLM.MaxRPM < 0 {
		return &ConfigurationError{Key: "llm.max_rpm", Reason: "must not be negative"}
	}
	if c.LLM.CallTimeout < 0 {
		return &ConfigurationError{Key: "llm.call_timeout", Reason: "must not be negative"}
	}
	if c.Server.Port == "" {
		return &ConfigurationError{Key: "server.port", Reason: "must be set"}
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return &ConfigurationError{Key: "server.port", Reason: fmt.Sprintf("%q is not a port number", c.Server.Port)}
	}
	if c.Downloads.Size <= 0 {
		return &ConfigurationError{Key: "downloads.size", Reason: "must be positive"}
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return &ConfigurationError{Key: "telegram.chat_id", Reason: "required when telegram.token is set"}
	}
	return nil
}

func apiKeyEnv(provider string) string {
	if provider == agent.ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// AgentSettings maps the LLM section onto the model client settings.
func (c *Config) AgentSettings() agent.Settings {
	return agent.Settings{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.Model,
		APIKey:      c.LLM.APIKey,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		CallTimeout: c.LLM.CallTimeout,
		MaxRPM:      c.LLM.MaxRPM,
	}
}
