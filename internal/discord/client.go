// Package discord is a minimal Discord REST client for posting moderation
// notices into private threads.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://discord.com/api/v10"

// ChannelTypePrivateThread is GUILD_PRIVATE_THREAD.
const ChannelTypePrivateThread = 12

// APIError is a non-2xx answer from Discord.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord: status %d: %s", e.Status, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxElapsed time.Duration
	interval   time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRetry bounds the exponential backoff used for retryable failures.
func WithRetry(initial, maxElapsed time.Duration) Option {
	return func(c *Client) {
		c.interval = initial
		c.maxElapsed = maxElapsed
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Discord allows 50 requests per second per bot.
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		maxElapsed: 30 * time.Second,
		interval:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createThreadRequest struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

type channel struct {
	ID string `json:"id"`
}

type createMessageRequest struct {
	Content string `json:"content"`
}

// CreateThread opens a private thread under channelID and returns its id.
func (c *Client) CreateThread(ctx context.Context, channelID, name string) (string, error) {
	var thread channel
	path := "/channels/" + url.PathEscape(channelID) + "/threads"
	if err := c.post(ctx, path, createThreadRequest{Name: name, Type: ChannelTypePrivateThread}, &thread); err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	if thread.ID == "" {
		return "", fmt.Errorf("create thread: empty id in response")
	}
	return thread.ID, nil
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	path := "/channels/" + url.PathEscape(channelID) + "/messages"
	if err := c.post(ctx, path, createMessageRequest{Content: content}, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bot "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			apiErr := &APIError{Status: resp.StatusCode, Body: string(msg)}
			if apiErr.Retryable() {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	return backoff.Retry(op, backoff.WithContext(c.newBackoff(), ctx))
}

func (c *Client) newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = c.maxElapsed
	return b
}
