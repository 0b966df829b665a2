package classify

import (
	"context"
	"log/slog"

	"github.com/kirillkom/feedback-analyzer/internal/core/domain"
	"github.com/kirillkom/feedback-analyzer/internal/core/ports"
)

const defaultMaxTokens = 30

// Engine categorizes feedback text. With a generator configured it runs the
// few-shot prompt path; without one, or whenever the generator fails, it
// degrades to the deterministic keyword rules. A generator failure is local
// to the call and never propagates.
type Engine struct {
	generator ports.TextGenerator
	maxTokens int
	logger    *slog.Logger
}

// NewEngine builds an engine. A nil generator selects local mode.
func NewEngine(generator ports.TextGenerator, maxTokens int, logger *slog.Logger) *Engine {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		generator: generator,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Categorize produces a category suggestion for text, using up to
// FewShotWindow of the given corrections as few-shot context.
func (e *Engine) Categorize(ctx context.Context, text string, recent []domain.Correction) Suggestion {
	if e.generator == nil {
		return KeywordCategorize(text)
	}

	raw, err := e.generator.Generate(ctx, BuildPrompt(text, recent), e.maxTokens)
	if err != nil {
		e.logger.Warn("generator failed, using keyword fallback", "error", err)
		suggestion := KeywordCategorize(text)
		suggestion.Source = SourceFallback
		return suggestion
	}

	return Suggestion{
		Category:   ParseCategory(raw),
		Confidence: ConfidenceGenerated,
		Source:     SourceGenerated,
	}
}
