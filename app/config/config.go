package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	OpenAI    OpenAI    `yaml:"openai"`
	Knowledge Knowledge `yaml:"knowledge"`
	Tickets   Tickets   `yaml:"tickets"`
	Session   Session   `yaml:"session"`
}

type OpenAI struct {
	Completion ModelConfig     `yaml:"completion" validate:"required"`
	Embedding  EmbeddingConfig `yaml:"embedding"`
}

type ModelConfig struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Chat completion model
	Model string `yaml:"model" example:"gpt-4o" validate:"required"`
}

type EmbeddingConfig struct {
	// OpenAI-compatible base url, defaults to the completion base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1"`
	// Token, defaults to the completion token
	Token string `yaml:"token"`
	// Embedding model
	Model string `yaml:"model" example:"text-embedding-3-small"`
}

type Knowledge struct {
	// Directory with knowledge base documents (markdown/plain text)
	Dir string `yaml:"dir" example:"knowledge"`
	// Number of passages retrieved per query
	TopK int `yaml:"top_k" example:"5"`
}

type Tickets struct {
	// Base url used to build tracking links
	TrackingBaseURL string `yaml:"tracking_base_url" example:"https://support.example.edu/tickets"`
}

type Session struct {
	// Sessions idle longer than this are swept, minutes
	MaxAgeMinutes int `yaml:"max_age_minutes" example:"60"`
	// Sweep interval, minutes
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" example:"10"`
}

type Log struct {
	// Telegram logging config, escalation alerts are mirrored here
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

func LoadFile(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.OpenAI.Embedding.BaseURL == "" {
		result.OpenAI.Embedding.BaseURL = result.OpenAI.Completion.BaseURL
	}
	if result.OpenAI.Embedding.Token == "" {
		result.OpenAI.Embedding.Token = result.OpenAI.Completion.Token
	}
	if result.OpenAI.Embedding.Model == "" {
		result.OpenAI.Embedding.Model = "text-embedding-3-small"
	}
	if result.Knowledge.Dir == "" {
		result.Knowledge.Dir = "knowledge"
	}
	if result.Knowledge.TopK <= 0 {
		result.Knowledge.TopK = 5
	}
	if result.Tickets.TrackingBaseURL == "" {
		result.Tickets.TrackingBaseURL = "https://support.example.edu/tickets"
	}
	if result.Session.MaxAgeMinutes <= 0 {
		result.Session.MaxAgeMinutes = 60
	}
	if result.Session.SweepIntervalMinutes <= 0 {
		result.Session.SweepIntervalMinutes = 10
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
