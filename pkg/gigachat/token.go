package gigachat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

const (
	DefaultAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultScope   = "GIGACHAT_API_PERS"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// TokenCache fetches a bearer token on every Acquire and keeps the last one.
// The token lifetime reported by the server is not used for reuse.
type TokenCache struct {
	credentials Credentials
	authURL     string
	scope       string
	hc          *http.Client

	mu    sync.RWMutex
	token string
}

func NewTokenCache(credentials Credentials, authURL, scope string, hc *http.Client) *TokenCache {
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if scope == "" {
		scope = DefaultScope
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &TokenCache{
		credentials: credentials,
		authURL:     authURL,
		scope:       scope,
		hc:          hc,
	}
}

func (c *TokenCache) Acquire(ctx context.Context) (string, error) {
	if c.credentials.IsZero() {
		return "", domain.ErrMissingCredentials
	}

	token, err := c.requestToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenRequestFailed, err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	slog.DebugContext(ctx, "GigaChat token acquired", "source", c.credentials.Source)

	return token, nil
}

// Last returns the most recently fetched token.
func (c *TokenCache) Last() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *TokenCache) requestToken(ctx context.Context) (string, error) {
	form := url.Values{"scope": {c.scope}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.New().String())
	req.Header.Set("Authorization", "Basic "+c.credentials.authKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding response data: %w", err)
	}

	if tr.AccessToken == "" {
		return "", fmt.Errorf("empty access_token in response")
	}

	return tr.AccessToken, nil
}
