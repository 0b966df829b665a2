package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/feedback-analyzer/internal/config"
	"github.com/kirillkom/feedback-analyzer/internal/core/classify"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
	"github.com/kirillkom/feedback-analyzer/internal/core/usecase"
	"github.com/kirillkom/feedback-analyzer/internal/infrastructure/llm/ollama"
	openaillm "github.com/kirillkom/feedback-analyzer/internal/infrastructure/llm/openai"
	"github.com/kirillkom/feedback-analyzer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/feedback-analyzer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/feedback-analyzer/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.FeedbackRepository

	AnalyzeUC   ports.BatchAnalyzer
	IngestUC    ports.TweetIngestor
	DashboardUC ports.DashboardReader
	OverrideUC  ports.CategoryOverrider

	closeFn func()
}

// New wires the full dependency graph. The caller supplies the analysis
// metrics sink because the API and the worker register theirs on separate
// registries.
func New(ctx context.Context, cfg config.Config, metrics ports.AnalysisMetrics, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFeedbackRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.BreakerOpenTimeoutSecs) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenMaxCalls),
	})

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	generator, err := newGenerator(cfg, executor)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}
	engine := classify.NewEngine(generator, cfg.LLMMaxTokens, logger)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		AnalyzeUC:   usecase.NewAnalyzeUseCase(repo, engine, cfg.CorrectionsWindow, metrics, logger),
		IngestUC:    usecase.NewIngestUseCase(repo, queue),
		DashboardUC: usecase.NewDashboardUseCase(repo),
		OverrideUC:  usecase.NewOverrideUseCase(repo, metrics),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// newGenerator picks the text-generation backend. "none" runs the engine in
// keyword-only mode, which is also the behavior whenever a configured
// backend fails at call time.
func newGenerator(cfg config.Config, executor *resilience.Executor) (ports.TextGenerator, error) {
	switch cfg.LLMProvider {
	case "", "none":
		return nil, nil
	case "ollama":
		return ollama.NewGenerator(ollama.New(cfg.OllamaURL, cfg.OllamaGenModel), executor), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("llm provider openai requires OPENAI_API_KEY")
		}
		return openaillm.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, executor), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
