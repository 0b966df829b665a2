// Package openai backs the TextGenerator port with the OpenAI chat API for
// deployments without a local Ollama instance.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/feedback-analyzer/internal/infrastructure/resilience"
)

type Generator struct {
	client   *openai.Client
	model    string
	executor *resilience.Executor
}

func NewGenerator(apiKey, model string, executor *resilience.Executor) *Generator {
	return &Generator{
		client:   openai.NewClient(apiKey),
		model:    model,
		executor: executor,
	}
}

// NewGeneratorWithConfig exists for tests that point the client at a local server.
func NewGeneratorWithConfig(cfg openai.ClientConfig, model string, executor *resilience.Executor) *Generator {
	return &Generator{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		executor: executor,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var reply string
	call := func(ctx context.Context) error {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens: maxTokens,
		})
		if err != nil {
			return fmt.Errorf("openai chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("openai chat completion: empty choices")
		}
		reply = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	}

	var err error
	if g.executor != nil {
		err = g.executor.Execute(ctx, "openai.generate", call, nil)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
