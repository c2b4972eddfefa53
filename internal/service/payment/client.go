package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/accountshop/internal/logger"
)

const (
	CodeRetryAfter = "retry-after"
	CodeNoContent  = "no-content"
	CodeUnknown    = "unknown"
)

const (
	defaultRetryAfter = 60 * time.Second
	requestTimeout    = 5 * time.Second
)

// Provider statuses
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Error struct {
	Code string

	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %s, retry_after: %s, error: %v", e.Code, e.RetryAfter, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, retryAfter time.Duration, err error) *Error {
	return &Error{Code: code, RetryAfter: retryAfter, Err: err}
}

type DepositStatus struct {
	DepositID uuid.UUID `json:"deposit"`
	Status    string    `json:"status"`
}

// Client of the payment provider which confirms user deposits
type Client struct {
	addr   string
	client *http.Client
	logger logger.Logger
}

func NewClient(addr string, l logger.Logger) (*Client, error) {
	u, err := url.Parse(addr)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("payment provider address must be http(s) url, got %q", addr)
	}

	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &Client{
		addr:   strings.TrimSuffix(addr, "/"),
		client: &http.Client{Timeout: requestTimeout},
		logger: l,
	}, nil
}

func (c *Client) GetDepositStatus(ctx context.Context, id uuid.UUID) (DepositStatus, error) {
	var status DepositStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/api/deposits/"+id.String(), nil)
	if err != nil {
		return status, newError(CodeUnknown, 0, fmt.Errorf("failed to create request: %w", err))
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return status, newError(CodeUnknown, 0, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() // nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		return c.processSuccess(resp)
	case http.StatusTooManyRequests:
		return status, c.processTooManyRequests(resp)
	case http.StatusNoContent:
		return status, newError(CodeNoContent, 0, fmt.Errorf("provider knows nothing about deposit %s", id))
	default:
		c.logger.Warn("Failed to get deposit status", "status_code", resp.StatusCode, "deposit_id", id)
		return status, newError(CodeUnknown, 0, fmt.Errorf("unknown status code %d for deposit %s", resp.StatusCode, id))
	}
}

func (c *Client) processSuccess(resp *http.Response) (DepositStatus, error) {
	var s DepositStatus
	err := json.NewDecoder(resp.Body).Decode(&s)
	if err != nil {
		c.logger.Warn("Failed to decode response", "error", err)
		return s, newError(CodeUnknown, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.Debug("Payment provider response", "deposit_id", s.DepositID, "status", s.Status)
	return s, nil
}

func (c *Client) processTooManyRequests(resp *http.Response) error {
	retryAfter := defaultRetryAfter

	seconds, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err == nil && seconds > 0 {
		retryAfter = time.Duration(seconds) * time.Second
	}

	c.logger.Warn("Payment provider throttled", "retry_after", retryAfter)
	return newError(CodeRetryAfter, retryAfter, fmt.Errorf("retry after %s", retryAfter))
}
