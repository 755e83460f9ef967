package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// APIError is a categorized failure from the gateway. Kind is one of the
// sentinel errors in [shared] (ErrNetworkFailure, ErrUnauthorized,
// ErrValidationFailed, ErrServerFailure, ErrMalformedResponse), so callers
// branch with [errors.Is]. Message carries the server-supplied text for
// validation failures and is safe to show to the user verbatim.
type APIError struct {
	Kind    error
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.cause != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.cause)
	case e.Status != 0:
		return fmt.Sprintf("%v: status %d", e.Kind, e.Status)
	default:
		return e.Kind.Error()
	}
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// Client is the single entry point to the remote todo API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     oauth2.TokenSource
	RateLimit  float64 // requests per second; 0 disables throttling
	Logger     *log.Logger
}

// NewClient creates a gateway client for the todo API.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:3000"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// envelope is the response wrapper the todo API uses for reads:
// {"data": ...}. Some endpoints (register, login) reply unwrapped.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Request performs one round trip against the API and returns the payload
// with the data envelope already unwrapped.
//
// When requiresAuth is true the bearer token is read from the token source
// for this call only; a token saved or cleared elsewhere is picked up on the
// next request. The response body is mapped onto the error taxonomy: transport
// failure, 401, other 4xx (with the server message), 5xx, and bodies that
// don't parse.
func (c *Client) Request(ctx context.Context, method, path string, body any, requiresAuth bool) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Kind: shared.ErrNetworkFailure, cause: err}
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	if requiresAuth {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: shared.ErrNetworkFailure, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: shared.ErrNetworkFailure, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp.StatusCode, raw)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{Kind: shared.ErrMalformedResponse, Status: resp.StatusCode, cause: err}
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data, nil
	}

	return raw, nil
}

// statusError maps a non-2xx response to an [APIError]. The body is decoded
// for a server-supplied message so validation failures surface verbatim.
func (c *Client) statusError(status int, raw []byte) *APIError {
	var env envelope
	message := ""
	if err := json.Unmarshal(raw, &env); err == nil {
		message = env.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		return &APIError{Kind: shared.ErrUnauthorized, Status: status, Message: message}
	case status >= 400 && status < 500:
		if message == "" {
			message = "request rejected"
		}
		return &APIError{Kind: shared.ErrValidationFailed, Status: status, Message: message}
	default:
		return &APIError{Kind: shared.ErrServerFailure, Status: status}
	}
}
