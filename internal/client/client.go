// Package client is a Go client for the ledger HTTP API.
//
// Requests that fail with a concurrency conflict or a server error are
// retried with exponential backoff. Transactions always carry an id, so a
// retried posting either commits once or replays the committed result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iho/ledger/internal/adapter/http/dto"
	"github.com/iho/ledger/internal/domain"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultMaxRetries      = 5
	defaultInitialInterval = 50 * time.Millisecond
	defaultMaxInterval     = 2 * time.Second
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ledger api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("ledger api: %d %s", e.StatusCode, e.Code)
}

// Temporary reports whether the same request may succeed if sent again.
func (e *APIError) Temporary() bool {
	switch {
	case e.StatusCode >= http.StatusInternalServerError:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode == http.StatusConflict:
		return strings.Contains(e.Message, domain.ErrConcurrencyFailure.Error())
	default:
		return false
	}
}

// Client talks to a ledger server.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the retry budget and the first backoff interval.
func WithRetry(maxRetries uint64, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialInterval = initialInterval
	}
}

// WithLogger logs retried attempts.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: defaultTimeout},
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAccount creates an account, or returns the existing one when the
// request carries the id of an account that is already stored.
func (c *Client) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	if err := c.do(ctx, http.MethodPost, "/accounts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAccount fetches an account with its current balance.
func (c *Client) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTransaction posts a transaction. A missing id is generated before
// the first attempt so that every retry targets the same transaction.
func (c *Client) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if req.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate transaction id: %w", err)
		}
		req.ID = id.String()
	}

	var out dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransaction fetches a posted transaction.
func (c *Client) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	var out dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckConsistency runs the server side consistency check. An inconsistent
// ledger returns the report together with an *APIError.
func (c *Client) CheckConsistency(ctx context.Context) (*dto.ConsistencyResponse, error) {
	var out dto.ConsistencyResponse
	err := c.do(ctx, http.MethodGet, "/ledger/consistency", nil, &out)
	if err == nil {
		return &out, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		if jsonErr := json.Unmarshal(apiErr.Body, &out); jsonErr == nil {
			return &out, err
		}
	}
	return nil, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval
	b.MaxElapsedTime = 0

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.send(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}

		c.logger.Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Msg("ledger request failed, retrying")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode), Body: raw}
		var errResp dto.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Transport failures: the request may or may not have reached the server,
	// which is safe because every mutating call is idempotent by id.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
