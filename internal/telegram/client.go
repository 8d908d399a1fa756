// Package telegram is a minimal Telegram Bot API client covering what the
// ledger bot needs: sending replies to the configured chat and managing the
// inbound webhook.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chitieu/internal/bot"
	"chitieu/internal/log"
)

const defaultAPIBase = "https://api.telegram.org"

// Client talks to one bot and one chat. All replies go to the configured
// chat id; per-sender routing is out of scope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

var _ bot.Messenger = (*Client)(nil)

// New creates a client for the given bot token and chat id.
func New(token, chatID string) *Client {
	return &Client{
		httpClient: newHTTPClientWithPooling(),
		baseURL:    defaultAPIBase,
		token:      token,
		chatID:     chatID,
	}
}

// NewWithBaseURL creates a client against a custom API base. Tests point it
// at an httptest server.
func NewWithBaseURL(token, chatID, baseURL string) *Client {
	c := New(token, chatID)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// newHTTPClientWithPooling creates an HTTP client with connection pooling
// and timeouts suitable for the Bot API.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// apiResponse is the envelope every Bot API method returns.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendReply sends text to the configured chat. Implements bot.Messenger.
func (c *Client) SendReply(ctx context.Context, text string) error {
	params := url.Values{}
	params.Set("chat_id", c.chatID)
	params.Set("text", text)
	_, err := c.call(ctx, "sendMessage", params)
	return err
}

// SetWebhook registers webhookURL as the bot's update endpoint.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	params := url.Values{}
	params.Set("url", webhookURL)
	_, err := c.call(ctx, "setWebhook", params)
	return err
}

// DeleteWebhook removes the registered webhook.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	_, err := c.call(ctx, "deleteWebhook", nil)
	return err
}

// WebhookInfo describes the currently registered webhook.
type WebhookInfo struct {
	URL             string `json:"url"`
	PendingUpdates  int    `json:"pending_update_count"`
	LastErrorDate   int64  `json:"last_error_date"`
	LastErrorReason string `json:"last_error_message"`
}

// GetWebhookInfo fetches the current webhook registration state.
func (c *Client) GetWebhookInfo(ctx context.Context) (WebhookInfo, error) {
	raw, err := c.call(ctx, "getWebhookInfo", nil)
	if err != nil {
		return WebhookInfo{}, err
	}
	var info WebhookInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return WebhookInfo{}, fmt.Errorf("decode webhook info: %w", err)
	}
	return info, nil
}

// call issues one Bot API method and unwraps the response envelope.
func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response (status %d): %w", method, resp.StatusCode, err)
	}
	if !envelope.OK {
		return nil, fmt.Errorf("%s rejected: %s", method, envelope.Description)
	}

	slog.DebugContext(ctx, "Bot API call completed",
		log.FieldComponent, log.ComponentTelegram,
		"method", method,
		"status", resp.StatusCode)
	return envelope.Result, nil
}
