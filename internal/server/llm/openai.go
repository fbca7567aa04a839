// Package llm wraps the external completion API behind a small interface so
// the gateway handler can be tested without spending tokens.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/internal/policy"
)

// Generation limits: the triage format fits well under 220 tokens, and a
// low temperature keeps the output terse and predictable.
const (
	maxReplyTokens = 220
	temperature    = 0.2
)

// ErrQuotaExceeded marks upstream quota/billing failures so the handler can
// map them to the consultation-redirect message.
var ErrQuotaExceeded = errors.New("upstream quota exceeded")

// Completer issues one completion call per turn with the fixed system
// instruction attached server-side.
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// OpenAIClient is the production Completer.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// Options mirror the active profile; APIKey must be non-empty.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("model not configured, defaulting", "model", model)
	}

	clientConfig := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientConfig.BaseURL = opts.BaseURL
	}

	slog.Info("initializing completion client", "model", model)
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, messages []models.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   maxReplyTokens,
		Temperature: temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)+1),
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: policy.SystemPrompt,
	})
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("completion call failed", "error", err)
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("completion call failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("completion returned no content")
	}
	return resp.Choices[0].Message.Content, nil
}

// isQuotaError matches quota/billing flavored upstream failures by error
// text, the only signal the completion API exposes for them.
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "quota") || strings.Contains(msg, "billing")
}
