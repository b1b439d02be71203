package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"careerpilot/internal/errors"
)

// Client is the sole boundary to the career-coaching backend. Every response
// is expected to carry the envelope {success, data?, error?}; anything else is
// treated as a failure with the call site's default message.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *apiBreaker
	logger     *errors.Logger

	// tokenMu guards token: the credentials watcher rotates it from its own
	// goroutine while poll loops hold in-flight requests.
	tokenMu sync.RWMutex
	token   string
}

// Options configures a backend client.
type Options struct {
	BaseURL string
	Token   string
	// Timeout bounds each individual request. Zero disables the bound.
	Timeout time.Duration
	// Transport, when set, replaces the default transport (used for
	// observability instrumentation).
	Transport http.RoundTripper
	Breaker   BreakerOptions
}

// NewClient creates a backend client.
func NewClient(opts Options, logger *errors.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Backend base URL is required", nil)
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Transport != nil {
		httpClient.Transport = opts.Transport
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: httpClient,
		breaker:    newAPIBreaker(opts.Breaker, logger),
		logger:     logger,
	}, nil
}

// SetToken replaces the bearer token. Used by the credentials watcher when the
// token file changes under a long-running command.
func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	c.token = token
	c.tokenMu.Unlock()
}

func (c *Client) bearerToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token
}

// envelope is the uniform backend response shape. Success is a pointer so that
// a response missing the field entirely is distinguishable from success:false;
// both are failures.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// call performs one request and normalizes the envelope. out may be nil for
// calls whose data payload is ignored. defaultMsg is the user-facing message
// when the backend omits an error string.
func (c *Client) call(ctx context.Context, method, path string, body any, out any, defaultMsg string) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError(errors.ErrCodeAPIFailure,
				"Failed to encode request body", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeAPIFailure,
			"Failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out, defaultMsg)
}

// send executes a prepared request through the circuit breaker and decodes the
// envelope into out.
func (c *Client) send(req *http.Request, out any, defaultMsg string) error {
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	env, err := c.breaker.Execute(func() (*envelope, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil && c.logger != nil {
				c.logger.Warn("Failed to close response body", "error", closeErr)
			}
		}()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			// Not an envelope at all. A non-2xx status here means the
			// server itself is failing, so the breaker must see it; a
			// 2xx non-envelope is an application-level failure with the
			// call site's default message.
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, fmt.Errorf("server returned status %d without an envelope", resp.StatusCode)
			}
			if c.logger != nil {
				c.logger.Debug("Non-envelope response from server",
					"status", resp.StatusCode, "path", req.URL.Path)
			}
			return &envelope{}, nil
		}
		return &env, nil
	})
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeAPIFailure, defaultMsg, err)
	}

	if env.Success == nil || !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = defaultMsg
		}
		return errors.NewAPIError(errors.ErrCodeAPIFailure, msg, nil)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.NewAPIError(errors.ErrCodeAPIFailure,
				"Unexpected response shape from server", err)
		}
	}
	return nil
}

// postMultipart uploads a single file under the given form field.
func (c *Client) postMultipart(ctx context.Context, path, field, filename string, content io.Reader, out any, defaultMsg string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeAPIFailure,
			"Failed to build multipart request", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read upload content for %s", filename), err)
	}
	if err := writer.Close(); err != nil {
		return errors.NewInternalError(errors.ErrCodeAPIFailure,
			"Failed to finalize multipart request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeAPIFailure,
			"Failed to build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out, defaultMsg)
}

func (c *Client) get(ctx context.Context, path string, out any, defaultMsg string) error {
	return c.call(ctx, http.MethodGet, path, nil, out, defaultMsg)
}

func (c *Client) post(ctx context.Context, path string, body, out any, defaultMsg string) error {
	return c.call(ctx, http.MethodPost, path, body, out, defaultMsg)
}

func (c *Client) put(ctx context.Context, path string, body, out any, defaultMsg string) error {
	return c.call(ctx, http.MethodPut, path, body, out, defaultMsg)
}

func (c *Client) delete(ctx context.Context, path string, out any, defaultMsg string) error {
	return c.call(ctx, http.MethodDelete, path, nil, out, defaultMsg)
}
