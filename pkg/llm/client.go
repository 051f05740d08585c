package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client provides access to OpenAI-compatible completion endpoints.
type Client struct {
	client   *openai.Client
	endpoint string
	model    string
	recorder *ExchangeRecorder
	logger   *zap.Logger
}

// Config holds configuration for creating a completion client.
type Config struct {
	Endpoint string // Base URL, e.g., "https://api.openai.com/v1"
	Model    string // Model name, e.g., "gpt-4o-mini"
	APIKey   string
}

// NewClient creates a new OpenAI-compatible completion client. The recorder
// is optional; when set, every prompt/response exchange is captured in its
// bounded diagnostic buffer.
func NewClient(cfg *Config, recorder *ExchangeRecorder, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		recorder: recorder,
		logger:   logger.Named("llm"),
	}, nil
}

// requestTemperature maps a temperature onto the wire field. The request
// struct marks Temperature omitempty, so a literal zero would be dropped and
// the provider would sample at its default. The smallest positive float32
// keeps an explicit zero on the wire.
func requestTemperature(temperature float64) float32 {
	if temperature == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(temperature)
}

// Complete generates a completion for the user prompt. maxTokens <= 0 means
// no cap (used for final answers; classification passes a small cap).
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: requestTemperature(temperature),
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	c.logger.Debug("completion request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(userPrompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("completion request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content

	c.logger.Info("completion request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	if c.recorder != nil {
		c.recorder.Record(userPrompt, content)
	}

	return content, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}
