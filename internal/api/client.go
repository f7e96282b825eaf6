// Package api is a typed client for the ThinkTank REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/ratelimit"

	"thinktank/internal/auth"
)

const (
	// DefaultTimeout is applied uniformly to connect, read and write.
	DefaultTimeout = 30 * time.Second
	// RequestIDHeader carries a per-call UUID for server-side correlation.
	RequestIDHeader = "X-Request-ID"
	maxErrorBody    = 4 << 10
)

// TokenSource yields the raw token used for protected calls.
type TokenSource interface {
	Token() (string, error)
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int // 0 disables pacing
	Tokens            TokenSource
	HTTPClient        *http.Client // overrides Timeout when set
	Debug             bool
}

// Client performs typed calls against the ThinkTank API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter ratelimit.Limiter
	tokens  TokenSource
	debug   bool
}

// New creates a Client. BaseURL and Tokens are required.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", opts.BaseURL)
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := ratelimit.NewUnlimited()
	if opts.RequestsPerSecond > 0 {
		limiter = ratelimit.New(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		limiter: limiter,
		tokens:  opts.Tokens,
		debug:   opts.Debug,
	}, nil
}

// call describes one request.
type call struct {
	method      string
	path        string
	protected   bool
	body        interface{}
	rawBody     io.Reader
	contentType string
	out         interface{}
}

func (c *Client) do(ctx context.Context, cl call) error {
	logPrefix := fmt.Sprintf("[API %s %s]", cl.method, cl.path)

	body := cl.rawBody
	contentType := cl.contentType
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s failed to encode request: %w", logPrefix, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL.String()+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s failed to build request: %w", logPrefix, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	if cl.protected {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("%s no credentials: %w", logPrefix, err)
		}
		req.Header.Set("Authorization", auth.BearerPrefix+auth.StripBearer(token))
	}

	c.limiter.Take()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s cancelled: %w", logPrefix, ctx.Err())
		}
		log.Printf("%s request %s failed: %v", logPrefix, requestID, err)
		return &NetworkError{Method: cl.method, Path: cl.path, Err: err}
	}
	defer resp.Body.Close()

	if c.debug {
		log.Printf("%s request %s -> %d in %v", logPrefix, requestID, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: cl.method, Path: cl.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%s %w", logPrefix, ErrEmptyResponse)
	}
	if s, ok := cl.out.(*string); ok && !json.Valid(data) {
		*s = strings.TrimSpace(string(data))
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%s failed to decode response: %w", logPrefix, err)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
