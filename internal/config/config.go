package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWS_TRIAGE_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	groqAPIKeyEnv     = "GROQ_API_KEY"
	groqModelEnv      = "GROQ_MODEL"
	tavilyAPIKeyEnv   = "TAVILY_API_KEY"
	sheetsTokenEnv    = "SHEETS_ACCESS_TOKEN"
	sheetIDEnv        = "GOOGLE_SHEET_ID"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Database      DatabaseConfig     `yaml:"database"`
	Feeds         FeedsConfig        `yaml:"feeds"`
	LLM           LLMConfig          `yaml:"llm"`
	Research      ResearchConfig     `yaml:"research"`
	Reader        ReaderConfig       `yaml:"reader"`
	Sheets        SheetsConfig       `yaml:"sheets"`
	Notifications NotificationConfig `yaml:"notifications"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig controls recurring runs. Disabled means a single batch
// pass per invocation.
type SchedulerConfig struct {
	Enabled       bool `yaml:"enabled"`
	IntervalHours int  `yaml:"intervalHours"`
}

// DatabaseConfig describes the Postgres archive connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// FeedsConfig points at the sources file declaring RSS feeds.
type FeedsConfig struct {
	File string `yaml:"file"`
}

// LLMConfig defines how to contact the chat-completions judge/oracle/
// summarizer endpoint.
type LLMConfig struct {
	Endpoint     string `yaml:"endpoint"`
	APIKey       string `yaml:"apiKey"`
	JudgeModel   string `yaml:"judgeModel"`
	SummaryModel string `yaml:"summaryModel"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// ResearchConfig wires the related-source search service.
type ResearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"apiKey"`
	MaxResults int    `yaml:"maxResults"`
}

// ReaderConfig describes the clean-content reader proxy. An empty BaseURL
// switches the fetcher to direct HTML extraction.
type ReaderConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// SheetsConfig wires the spreadsheet sink.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheetId"`
	AccessToken   string `yaml:"accessToken"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digests.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// PipelineConfig tunes the classification/deduplication run.
type PipelineConfig struct {
	JudgeWorkers   int     `yaml:"judgeWorkers"`
	DedupThreshold float64 `yaml:"dedupThreshold"`
	Language       string  `yaml:"language"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides for secrets.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(groqModelEnv); v != "" {
		c.LLM.JudgeModel = v
	}
	if v := os.Getenv(tavilyAPIKeyEnv); v != "" {
		c.Research.APIKey = v
	}
	if v := os.Getenv(sheetsTokenEnv); v != "" {
		c.Sheets.AccessToken = v
	}
	if v := os.Getenv(sheetIDEnv); v != "" {
		c.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.IntervalHours > 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Feeds.File != "" {
		base.Feeds = override.Feeds
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.JudgeModel != "" {
		base.LLM.JudgeModel = override.LLM.JudgeModel
	}
	if override.LLM.SummaryModel != "" {
		base.LLM.SummaryModel = override.LLM.SummaryModel
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}

	if override.Research.Endpoint != "" {
		base.Research.Endpoint = override.Research.Endpoint
	}
	if override.Research.APIKey != "" {
		base.Research.APIKey = override.Research.APIKey
	}
	if override.Research.MaxResults > 0 {
		base.Research.MaxResults = override.Research.MaxResults
	}

	if override.Reader.BaseURL != "" {
		base.Reader = override.Reader
	}

	if override.Sheets.SpreadsheetID != "" {
		base.Sheets.SpreadsheetID = override.Sheets.SpreadsheetID
	}
	if override.Sheets.AccessToken != "" {
		base.Sheets.AccessToken = override.Sheets.AccessToken
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Pipeline.JudgeWorkers > 0 {
		base.Pipeline.JudgeWorkers = override.Pipeline.JudgeWorkers
	}
	if override.Pipeline.DedupThreshold > 0 {
		base.Pipeline.DedupThreshold = override.Pipeline.DedupThreshold
	}
	if override.Pipeline.Language != "" {
		base.Pipeline.Language = override.Pipeline.Language
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{IntervalHours: 24},
		Feeds:     FeedsConfig{File: "config/sources.yaml"},
		LLM: LLMConfig{
			Endpoint:     "https://api.groq.com/openai/v1/chat/completions",
			JudgeModel:   "llama-3.1-70b-versatile",
			SummaryModel: "llama-3.3-70b-versatile",
			SystemPrompt: "You synthesize enterprise AI news into concise summaries.",
		},
		Research: ResearchConfig{
			Endpoint:   "https://api.tavily.com/search",
			MaxResults: 10,
		},
		Reader: ReaderConfig{BaseURL: "https://r.jina.ai/"},
		Pipeline: PipelineConfig{
			JudgeWorkers:   1,
			DedupThreshold: 0.8,
			Language:       "en",
		},
	}
}
