package gigachat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
	"github.com/dskvich/gigachat-telegram-bot/pkg/logger"
)

const (
	DefaultBaseURL = "https://gigachat.devices.sberbank.ru/api/v1"
	DefaultModel   = "GigaChat"
)

type TokenProvider interface {
	Acquire(ctx context.Context) (string, error)
}

type completionParams struct {
	temperature float32
	maxTokens   int
}

var (
	answerParams      = completionParams{temperature: 0.7, maxTokens: 1000}
	imagePromptParams = completionParams{temperature: 0.8, maxTokens: 200}
)

// Client talks to the OpenAI-compatible GigaChat chat completions endpoint.
type Client struct {
	tokens  TokenProvider
	baseURL string
	model   string
	hc      *http.Client
}

func NewClient(tokens TokenProvider, baseURL, model string, hc *http.Client) *Client {
	baseURL, _ = lo.Coalesce(baseURL, DefaultBaseURL)
	model, _ = lo.Coalesce(model, DefaultModel)
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		hc:      hc,
	}
}

// Complete answers the question in the sales-assistant role. It never fails:
// remote problems are turned into a user-facing degraded answer.
func (c *Client) Complete(ctx context.Context, question string, history []domain.Message) string {
	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Acquiring GigaChat token", logger.Err(err))
		return domain.NoAccessAnswer
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	hasSystem := lo.ContainsBy(history, func(m domain.Message) bool {
		return m.Role == domain.RoleSystem
	})
	if !hasSystem {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, toChatMessages(history)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	slog.InfoContext(ctx, "Calling GigaChat for chat completion", "model", c.model, "messagesCount", len(messages))

	answer, err := c.createChatCompletion(ctx, token, messages, answerParams)
	switch {
	case errors.Is(err, domain.ErrUnexpectedResponse):
		slog.WarnContext(ctx, "GigaChat returned no answer", logger.Err(err))
		return domain.UnexpectedFormatAnswer
	case err != nil:
		slog.ErrorContext(ctx, "Requesting GigaChat chat completion", logger.Err(err))
		return domain.RequestFailedAnswer
	}

	return answer
}

// DerivePrompt asks GigaChat for a short English description of an
// illustration for the question. ok is false when nothing usable came back.
func (c *Client) DerivePrompt(ctx context.Context, question string, history []domain.Message) (prompt string, ok bool) {
	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Skipping image prompt, no GigaChat token", logger.Err(err))
		return "", false
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: imageSystemPrompt,
	})
	messages = append(messages, toChatMessages(history)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf(imagePromptRequestFormat, question),
	})

	prompt, err = c.createChatCompletion(ctx, token, messages, imagePromptParams)
	if err != nil {
		slog.WarnContext(ctx, "Generating image prompt", logger.Err(err))
		return "", false
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", false
	}

	slog.DebugContext(ctx, "Image prompt generated", "prompt", prompt)

	return prompt, true
}

func (c *Client) createChatCompletion(
	ctx context.Context,
	token string,
	messages []openai.ChatCompletionMessage,
	params completionParams,
) (string, error) {
	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.hc

	resp, err := openai.NewClientWithConfig(cfg).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: params.temperature,
		MaxTokens:   params.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrUnexpectedResponse)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: empty message content", domain.ErrUnexpectedResponse)
	}

	return content, nil
}

func toChatMessages(history []domain.Message) []openai.ChatCompletionMessage {
	return lo.Map(history, func(m domain.Message, _ int) openai.ChatCompletionMessage {
		return openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	})
}
