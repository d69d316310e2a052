package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chartcyanvas/backend/internal/dto"
	"github.com/dgraph-io/ristretto/v2"
)

// Caller identifies the browser a backend read is made for. IP is sent as
// X-Forwarded-For so the backend limits each browser separately.
type Caller struct {
	Cookie string
	IP     string
}

// public drops the session so shared data is fetched anonymously.
func (c Caller) public() Caller {
	return Caller{IP: c.IP}
}

// BackendError is returned when the backend answers with a server error, a
// rate limit or a body that is not JSON.
type BackendError struct {
	Path   string
	Status int
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("GET %s: backend returned %d", e.Path, e.Status)
}

// Client reads the backend JSON API on behalf of the page loaders. Any
// response whose code is not "ok" is treated as absent data.
type Client struct {
	baseURL    string
	httpClient *http.Client
	profiles   *ristretto.Cache[string, *dto.UserResponse]
	ttl        time.Duration
}

// NewClient builds a client for baseURL. Public profiles are cached for ttl;
// a zero ttl disables the cache.
func NewClient(baseURL string, ttl time.Duration) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		ttl:        ttl,
	}
	if ttl > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, *dto.UserResponse]{
			NumCounters: 1e4,
			MaxCost:     1e3,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create profile cache: %w", err)
		}
		c.profiles = cache
	}
	return c, nil
}

func (c *Client) Close() {
	if c.profiles != nil {
		c.profiles.Close()
	}
}

// User returns the public profile of handle, or nil when it does not exist.
func (c *Client) User(ctx context.Context, caller Caller, handle string) (*dto.UserResponse, error) {
	if c.profiles != nil {
		if u, ok := c.profiles.Get(handle); ok {
			return u, nil
		}
	}

	var env dto.UserEnvelope
	if err := c.get(ctx, "/api/users/"+url.PathEscape(handle), caller.public(), &env); err != nil {
		return nil, err
	}
	if env.Code != dto.CodeOK || env.User == nil {
		return nil, nil
	}

	if c.profiles != nil {
		c.profiles.SetWithTTL(handle, env.User, 1, c.ttl)
		c.profiles.Wait()
	}
	return env.User, nil
}

// Charts lists the newest public charts, restricted to authorHandles when
// any are given.
func (c *Client) Charts(ctx context.Context, caller Caller, authorHandles ...string) ([]dto.ChartResponse, error) {
	path := "/api/charts"
	if len(authorHandles) > 0 {
		path += "?" + url.Values{"authorHandles": {strings.Join(authorHandles, ",")}}.Encode()
	}

	var env dto.ChartListEnvelope
	if err := c.get(ctx, path, caller.public(), &env); err != nil {
		return nil, err
	}
	if env.Code != dto.CodeOK {
		return []dto.ChartResponse{}, nil
	}
	return env.Charts, nil
}

// Chart fetches one chart as the caller would see it.
func (c *Client) Chart(ctx context.Context, caller Caller, name string) (*dto.ChartResponse, error) {
	var env dto.ChartEnvelope
	if err := c.get(ctx, "/api/charts/"+url.PathEscape(name), caller, &env); err != nil {
		return nil, err
	}
	if env.Code != dto.CodeOK {
		return nil, nil
	}
	return env.Chart, nil
}

// Session returns the signed-in user, or nil for anonymous callers.
func (c *Client) Session(ctx context.Context, caller Caller) (*dto.SessionUser, error) {
	if caller.Cookie == "" {
		return nil, nil
	}
	var env dto.SessionEnvelope
	if err := c.get(ctx, "/api/login/session", caller, &env); err != nil {
		return nil, err
	}
	if env.Code != dto.CodeOK {
		return nil, nil
	}
	return env.User, nil
}

func (c *Client) get(ctx context.Context, path string, caller Caller, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if caller.Cookie != "" {
		req.Header.Set("Cookie", caller.Cookie)
	}
	if caller.IP != "" {
		req.Header.Set("X-Forwarded-For", caller.IP)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError ||
		resp.StatusCode == http.StatusTooManyRequests ||
		!isJSON(resp.Header.Get("Content-Type")) {
		return &BackendError{Path: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
