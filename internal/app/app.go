package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"newstriage/internal/classify"
	"newstriage/internal/config"
	"newstriage/internal/dedup"
	"newstriage/internal/infrastructure/feed"
	"newstriage/internal/infrastructure/llm"
	"newstriage/internal/infrastructure/reader"
	"newstriage/internal/infrastructure/research"
	"newstriage/internal/infrastructure/scheduler"
	"newstriage/internal/infrastructure/sheets"
	"newstriage/internal/infrastructure/storage"
	"newstriage/internal/infrastructure/telegram"
	"newstriage/internal/langdetect"
	"newstriage/internal/logging"
	"newstriage/internal/ports"
	"newstriage/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
	logger   *slog.Logger
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	source, err := feed.NewSource(cfg.Feeds.File, nil, baseLogger.With("component", "feed"))
	if err != nil {
		return nil, fmt.Errorf("feed source: %w", err)
	}

	var db *sql.DB
	var repository ports.ProcessedRepository
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	llmClient := llm.NewClient(cfg.LLM, baseLogger.With("component", "llm"))

	adapter := classify.NewAdapter(llmClient, baseLogger.With("component", "classify"))
	classifier := classify.NewService(adapter, classify.DefaultOverlay(),
		cfg.Pipeline.JudgeWorkers, baseLogger.With("component", "classify"))

	detector := dedup.NewDetector(llmClient, cfg.Pipeline.DedupThreshold,
		source.SourcePriorities(), baseLogger.With("component", "dedup"))

	var sink ports.Sink
	if cfg.Sheets.SpreadsheetID != "" && cfg.Sheets.AccessToken != "" {
		sink = sheets.NewClient(cfg.Sheets.SpreadsheetID, cfg.Sheets.AccessToken,
			baseLogger.With("component", "sheets"))
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var researcher ports.Researcher
	if cfg.Research.APIKey != "" {
		researcher = research.NewClient(cfg.Research.Endpoint, cfg.Research.APIKey,
			baseLogger.With("component", "research"))
	}

	var language ports.LanguageDetector
	if cfg.Pipeline.Language != "" {
		language = langdetect.New()
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      source,
		Repository:  repository,
		Classifier:  classifier,
		Detector:    detector,
		Reader:      reader.NewReader(cfg.Reader.BaseURL, nil, baseLogger.With("component", "reader")),
		Researcher:  researcher,
		Summarizer:  llmClient,
		Sink:        sink,
		Notifier:    notifier,
		Language:    language,
		Logger:      baseLogger.With("component", "pipeline"),
		RunLanguage: cfg.Pipeline.Language,
		MaxRelated:  cfg.Research.MaxResults,
	})

	return &Application{cfg: cfg, pipeline: pipeline, db: db, logger: baseLogger}, nil
}

// Run executes a single batch pass, or keeps running on the configured
// interval when scheduling is enabled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if !a.cfg.Scheduler.Enabled {
		_, err := a.pipeline.Run(ctx, time.Now().UTC())
		return err
	}

	driver := scheduler.NewTickScheduler(time.Duration(a.cfg.Scheduler.IntervalHours) * time.Hour)
	err := driver.Start(ctx, func(trigger time.Time) {
		if _, runErr := a.pipeline.Run(ctx, trigger.UTC()); runErr != nil {
			a.logger.Error("scheduled run failed", "error", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return driver.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
