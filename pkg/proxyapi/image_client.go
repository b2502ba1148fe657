package proxyapi

import (
	"context"
	"encoding/base64"
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
	DefaultBaseURL    = "https://api.proxyapi.ru/openai/v1"
	DefaultImageModel = "gpt-image-1"

	// KeyPlaceholder is the env.example value of PROXY_API.
	KeyPlaceholder = "ваш_proxy_api_ключ_здесь"
)

// ImageClient renders pictures through ProxyAPI's OpenAI-compatible images endpoint.
type ImageClient struct {
	api   *openai.Client
	model string
}

// NewImageClient returns a disabled client when apiKey is empty or the placeholder.
func NewImageClient(apiKey, baseURL, model string, hc *http.Client) *ImageClient {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || apiKey == KeyPlaceholder {
		return &ImageClient{}
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL, _ = lo.Coalesce(strings.TrimRight(baseURL, "/"), DefaultBaseURL)
	if hc != nil {
		cfg.HTTPClient = hc
	}

	model, _ = lo.Coalesce(model, DefaultImageModel)

	return &ImageClient{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

func (c *ImageClient) Enabled() bool {
	return c.api != nil
}

// Render returns the decoded image or nil when generation is disabled or fails.
func (c *ImageClient) Render(ctx context.Context, prompt string) []byte {
	if !c.Enabled() {
		return nil
	}

	slog.InfoContext(ctx, "Starting image generation", "model", c.model)

	data, err := c.generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "Generating image via ProxyAPI", logger.Err(err))
		return nil
	}

	slog.InfoContext(ctx, "Image generated", "size", len(data))

	return data
}

func (c *ImageClient) generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:  c.model,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating image: %v", domain.ErrImageRender, err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("%w: no image data in response", domain.ErrImageRender)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decoding: %v", domain.ErrImageRender, err)
	}

	return data, nil
}
