package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUpstream wraps every failure of the remote suggestion service.
var ErrUpstream = errors.New("suggestion service")

// Suggester returns corrections for a piece of text, best first.
// Implementations block for the whole round trip.
type Suggester interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Nop is wired when no service is configured.
type Nop struct{}

func (Nop) Suggest(context.Context, string) ([]string, error) { return nil, nil }

type Client struct {
	token string
	url   string
	httpc *http.Client
}

func NewClient(url, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token: token,
		url:   url,
		httpc: &http.Client{Timeout: timeout},
	}
}

// New picks the HTTP client when url is set and Nop otherwise.
func New(url, token string, timeout time.Duration) Suggester {
	if url == "" {
		return Nop{}
	}
	return NewClient(url, token, timeout)
}

type request struct {
	Text string `json:"text"`
}

type response struct {
	Suggestions []string `json:"suggestions"`
}

func (c *Client) Suggest(ctx context.Context, text string) ([]string, error) {
	b, err := json.Marshal(request{Text: text})
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrUpstream, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Status)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return out.Suggestions, nil
}
