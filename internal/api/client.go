package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jharlow/reel/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Reel/1.0"
)

// InitState is the server's answer to "what does the client need to do
// before it can browse".
type InitState string

const (
	InitStateLogin           InitState = "login"
	InitStateCreateFirstUser InitState = "create_first_user"
	InitStateReady           InitState = "ready"
)

// Client talks to the media server: the init/login endpoints, the GraphQL
// API, and the image proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// mu guards token: auth commands replace it while an init poll's
	// request may be reading it on another goroutine.
	mu    sync.RWMutex
	token string
}

// NewClient creates a new API client. token may be empty; the setup flow
// fills it in after login.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the session token after a login or signup
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// InitState fetches the server's initialization status. The setup flow polls
// this until the server reports ready.
func (c *Client) InitState(ctx context.Context) (InitState, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/init", nil, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		State InitState `json:"state"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse init state: %w", err)
	}

	switch resp.State {
	case InitStateLogin, InitStateCreateFirstUser, InitStateReady:
		return resp.State, nil
	default:
		return "", fmt.Errorf("unknown init state %q", resp.State)
	}
}

// Login submits credentials and returns the session token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/login", nil, payload)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	if resp.Token == "" {
		return "", domain.ErrUnauthorized
	}

	c.SetToken(resp.Token)
	return resp.Token, nil
}

// doRequest performs an authenticated HTTP request. extraHeaders may be nil.
func (c *Client) doRequest(ctx context.Context, method, path string, extraHeaders map[string]string, payload []byte) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("api request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}
