package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Responder providers
const (
	ProviderCanned = "canned"
	ProviderOpenAI = "openai"
)

// DefaultGreeting is the assistant message every conversation starts with.
const DefaultGreeting = "Hello! I'm your AI workout assistant. I can help you with workout plans, exercise tips, nutrition advice, and answer any fitness-related questions. How can I help you today?"

var validate = validator.New()

// Config holds the application configuration
type Config struct {
	Chat       ChatConfig       `mapstructure:"chat"`
	Responder  ResponderConfig  `mapstructure:"responder"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Server     ServerConfig     `mapstructure:"server"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Log        LogConfig        `mapstructure:"log"`
}

// ChatConfig holds the chat session configuration
type ChatConfig struct {
	Greeting   string        `mapstructure:"greeting" validate:"required"`
	ReplyDelay time.Duration `mapstructure:"reply_delay" validate:"gte=0"`
}

// ResponderConfig selects the reply generator
type ResponderConfig struct {
	Provider  string   `mapstructure:"provider" validate:"oneof=canned openai"`
	Responses []string `mapstructure:"responses" validate:"dive,required"`
}

// LLMConfig holds the LLM configuration
type LLMConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port" validate:"required"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// TranscriptConfig holds the sqlite transcript archive configuration
type TranscriptConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chat.greeting", DefaultGreeting)
	v.SetDefault("chat.reply_delay", 1500*time.Millisecond)
	v.SetDefault("responder.provider", ProviderCanned)
	v.SetDefault("responder.responses", []string{})
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.system_prompt", "")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("transcript.enabled", false)
	v.SetDefault("transcript.path", "transcript.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load loads the configuration from $CONFIG_PATH, or from config.yaml in the
// working directory when that variable is unset.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

// LoadFrom loads the configuration from path. An empty path looks for an
// optional config.yaml in the working directory. COACH_* environment
// variables override file values.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks field constraints and the cross-section rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Responder.Provider == ProviderOpenAI && c.LLM.APIKey == "" {
		return errors.New("invalid config: llm.api_key is required for the openai responder")
	}
	return nil
}
