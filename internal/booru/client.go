package booru

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"booructl/internal/logging"
)

const (
	defaultBackoff     = 500 * time.Millisecond
	defaultMaxAttempts = 3
	defaultHTTPTimeout = 30 * time.Second
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config captures the runtime settings required to talk to the server.
type Config struct {
	BaseURL     string
	Username    string
	Token       string
	Backoff     time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// Client is the authenticated transport to a szurubooru-style API. Every
// request carries the precomputed token header and is wrapped by a
// fixed-backoff retry loop. The client holds no request state and is safe
// for reuse across a whole batch run.
type Client struct {
	apiURL      string
	authHeader  string
	httpClient  HTTPDoer
	backoff     time.Duration
	maxAttempts int
	sleeper     func(time.Duration)
	logger      *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP backend.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a client for the given server and credentials.
func NewClient(cfg Config, opts ...Option) *Client {
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := &Client{
		apiURL:      strings.TrimRight(cfg.BaseURL, "/") + "/api",
		authHeader:  buildAuthHeader(cfg.Username, cfg.Token),
		httpClient:  &http.Client{Timeout: timeout},
		backoff:     backoff,
		maxAttempts: attempts,
		sleeper:     time.Sleep,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func buildAuthHeader(username, token string) string {
	credentials := username + ":" + token
	return "Token " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

// UploadTemporaryFile uploads raw bytes and returns the opaque content token
// referenced by later create/update/reverse-search calls.
func (c *Client) UploadTemporaryFile(ctx context.Context, filename string, content io.Reader) (string, error) {
	// Buffer once so every retry attempt resubmits identical bytes.
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("read upload content: %w", err)
	}

	var upload TemporaryUpload
	err = c.withRetry(ctx, "upload temporary file", func() error {
		return c.doMultipart(ctx, "/uploads", filename, data, &upload)
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(upload.Token) == "" {
		return "", fmt.Errorf("upload temporary file: token missing from response")
	}
	return upload.Token, nil
}

// ReverseSearch asks the server for duplicate-detection results keyed by a
// previously uploaded content token.
func (c *Client) ReverseSearch(ctx context.Context, contentToken string) (*ReverseSearchResult, error) {
	body := map[string]string{"contentToken": contentToken}
	var result ReverseSearchResult
	err := c.withRetry(ctx, "reverse search", func() error {
		return c.doJSON(ctx, http.MethodPost, "/posts/reverse-search", body, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPost fetches the current authoritative state of a post.
func (c *Client) GetPost(ctx context.Context, id PostID) (*Post, error) {
	var post Post
	err := c.withRetry(ctx, "get post", func() error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/post/%d", id), nil, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost creates a new post from a draft whose content token references
// a temporary upload.
func (c *Client) CreatePost(ctx context.Context, draft *CreateUpdatePost) (*Post, error) {
	var post Post
	err := c.withRetry(ctx, "create post", func() error {
		return c.doJSON(ctx, http.MethodPost, "/posts", draft, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost updates an existing post. The draft must carry the server
// version observed during reconciliation; a stale version surfaces as
// ErrVersionConflict without retries.
func (c *Client) UpdatePost(ctx context.Context, id PostID, draft *CreateUpdatePost) (*Post, error) {
	var post Post
	err := c.withRetry(ctx, "update post", func() error {
		return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/post/%d", id), draft, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// MergePosts merges one post into another, deleting the source post.
func (c *Client) MergePosts(ctx context.Context, req *MergeRequest) (*Post, error) {
	var post Post
	err := c.withRetry(ctx, "merge posts", func() error {
		return c.doJSON(ctx, http.MethodPost, "/post-merge", req, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePostPool creates a pool containing the given posts in order.
func (c *Client) CreatePostPool(ctx context.Context, req *CreatePool) (*Pool, error) {
	var pool Pool
	err := c.withRetry(ctx, "create pool", func() error {
		return c.doJSON(ctx, http.MethodPost, "/pool", req, &pool)
	})
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// withRetry runs op up to the configured attempt budget with a fixed backoff
// between attempts. Non-retryable errors surface immediately; an exhausted
// budget wraps the last error in ErrMaxRetries.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !Retryable(err) {
			return err
		}
		if attempt == c.maxAttempts {
			break
		}
		c.logger.Warn("request failed, retrying",
			"operation", op,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"backoff", c.backoff,
			"error", err)
		if sleepErr := c.sleep(ctx); sleepErr != nil {
			return sleepErr
		}
	}
	return fmt.Errorf("%w: %s failed after %d attempts: %w", ErrMaxRetries, op, c.maxAttempts, lastErr)
}

func (c *Client) sleep(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.sleeper(c.backoff)
	return ctx.Err()
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doRequest(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path, filename string, content []byte, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("content", filename)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write multipart content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.doRequest(req, out)
}

func (c *Client) doRequest(req *http.Request, out any) error {
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Name        string `json:"name"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(body, &apiErr)
		return statusToError(resp.StatusCode, apiErr.Name, apiErr.Description)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode body: %v", ErrMalformedResponse, err)
	}
	return nil
}
