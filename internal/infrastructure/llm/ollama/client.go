package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/feedback-analyzer/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generator adapts the Ollama client to the TextGenerator port. The optional
// executor short-circuits calls while the backend keeps failing; the caller's
// keyword fallback handles the open-circuit error like any other failure.
type Generator struct {
	client   *Client
	executor *resilience.Executor
}

func NewGenerator(client *Client, executor *resilience.Executor) *Generator {
	return &Generator{
		client:   client,
		executor: executor,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var reply string
	call := func(ctx context.Context) error {
		var err error
		reply, err = g.client.generate(ctx, prompt, maxTokens)
		return err
	}

	var err error
	if g.executor != nil {
		err = g.executor.Execute(ctx, "ollama.generate", call, classifyGenerateError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (c *Client) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"num_predict": maxTokens,
		},
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
