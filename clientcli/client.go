package clientcli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// MaxBodyBytes caps how much of a response body is kept in a Result.
	MaxBodyBytes = 64 << 10
)

// Client performs requests against a testbed server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Login calls /login with the configured credentials.
func (c *Client) Login(ctx context.Context) (*Result, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c.do(ctx, http.MethodGet, "/login", nil, func(req *http.Request) {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	})
}

// Get fetches path, for example "/html", "/file" or "/file/img/sand.jpg".
func (c *Client) Get(ctx context.Context, opts GetOptions) (*Result, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("get: %w", ErrEmptyPath)
	}
	return c.do(ctx, http.MethodGet, opts.Path, opts.Output, nil)
}

// Ping posts to /test.
func (c *Client) Ping(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodPost, "/test", nil, nil)
}

// Fail calls /fail with the given status and message.
func (c *Client) Fail(ctx context.Context, opts FailOptions) (*Result, error) {
	q := url.Values{}
	q.Set("error", opts.Status)
	if !opts.NoMessage {
		q.Set("msg", opts.Message)
	}
	return c.do(ctx, http.MethodGet, "/fail?"+q.Encode(), nil, nil)
}

// Fail500 calls /fail500.
func (c *Client) Fail500(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodGet, "/fail500", nil, nil)
}

// Burst sends opts.Count requests, at most opts.Concurrency at a time, and
// tallies the responses by status. Transport errors are counted, not returned.
func (c *Client) Burst(ctx context.Context, opts BurstOptions) (*BurstResult, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("burst: %w", ErrEmptyPath)
	}
	if opts.Count < 1 {
		return nil, fmt.Errorf("burst: %w", ErrInvalidCount)
	}
	if opts.Method == "" {
		opts.Method = http.MethodGet
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	result := &BurstResult{
		Method:   opts.Method,
		Path:     opts.Path,
		Total:    opts.Count,
		Statuses: make(map[int]int),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, opts.Concurrency)
	)

	start := time.Now()
	for i := 1; i <= opts.Count; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := c.do(ctx, opts.Method, opts.Path, io.Discard, nil)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors++
				return
			}
			result.Statuses[res.Status]++
			if res.Status == http.StatusTooManyRequests && (result.FirstLimited == 0 || n < result.FirstLimited) {
				result.FirstLimited = n
			}
		}(i)
	}
	wg.Wait()
	result.Duration = time.Since(start)

	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, out io.Writer, prepare func(*http.Request)) (*Result, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if prepare != nil {
		prepare(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result := &Result{
		Method:      method,
		Path:        path,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		RequestID:   resp.Header.Get("X-Request-ID"),
		RateLimit:   rateLimitFromHeader(resp.Header),
	}

	if out != nil {
		result.Size, err = io.Copy(out, resp.Body)
	} else {
		var buf bytes.Buffer
		result.Size, err = io.Copy(&buf, io.LimitReader(resp.Body, MaxBodyBytes))
		if err == nil {
			var rest int64
			rest, err = io.Copy(io.Discard, resp.Body)
			result.Size += rest
		}
		result.Body = buf.String()
	}
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	result.Duration = time.Since(start)

	return result, nil
}

func rateLimitFromHeader(h http.Header) *RateLimit {
	rl := RateLimit{
		Limit:      h.Get("X-RateLimit-Limit"),
		Remaining:  h.Get("X-RateLimit-Remaining"),
		Reset:      h.Get("X-RateLimit-Reset"),
		RetryAfter: h.Get("Retry-After"),
	}
	if rl == (RateLimit{}) {
		return nil
	}
	return &rl
}
