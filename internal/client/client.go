// Package client is a Go client for the payroll HTTP API.
//
// Mutating calls carry an Idempotency-Key that stays the same across retries,
// so a retried payroll run is replayed by the server instead of committed twice.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/payroll/internal/adapter/http/dto"
)

const idempotencyKeyHeader = "Idempotency-Key"

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("payroll api: %d %s: %s", e.Status, e.Body.Error, e.Body.Message)
	}
	return fmt.Sprintf("payroll api: %d %s", e.Status, e.Body.Error)
}

// Client talks to the payroll API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration

	newKey func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithRetry sets how many times a failed call is retried and the first delay.
func WithRetry(maxRetries uint64, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialInterval = initialInterval
	}
}

// WithLogger logs retries to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a new Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         baseURL,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		logger:          zerolog.Nop(),
		maxRetries:      3,
		initialInterval: 200 * time.Millisecond,
		maxInterval:     5 * time.Second,
		newKey:          func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEmployees returns the active roster.
func (c *Client) ListEmployees(ctx context.Context) ([]*dto.EmployeeResponse, error) {
	var out []*dto.EmployeeResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/api/v1/employees", nil, &out)
	return out, err
}

// GetEmployee returns one employee, active or not.
func (c *Client) GetEmployee(ctx context.Context, id int64) (*dto.EmployeeResponse, error) {
	var out dto.EmployeeResponse
	if _, err := c.doJSON(ctx, http.MethodGet, employeePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEmployee adds an employee to the roster.
func (c *Client) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	var out dto.EmployeeResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/v1/employees", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmployee changes the fields set in req.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	var out dto.EmployeeResponse
	if _, err := c.doJSON(ctx, http.MethodPatch, employeePath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateEmployee soft-deletes an employee.
func (c *Client) DeactivateEmployee(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, employeePath(id), nil, nil)
	return err
}

// PreviewPayroll computes a run without storing it.
func (c *Client) PreviewPayroll(ctx context.Context, req dto.RunPayrollRequest) (*dto.PayrollRunResponse, error) {
	var out dto.PayrollRunResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/v1/payrolls/preview", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunPayroll commits a run. The report is rendered in format; a rendering
// failure is reported in ReportError and does not fail the call.
func (c *Client) RunPayroll(ctx context.Context, req dto.RunPayrollRequest, format string) (*dto.ProcessPayrollResponse, error) {
	path := "/api/v1/payrolls"
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}

	var out dto.ProcessPayrollResponse
	if _, err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPayrolls returns a page of history, newest first. limit 0 uses the
// server default.
func (c *Client) ListPayrolls(ctx context.Context, limit, offset int) (*dto.ListResponse[*dto.PayrollRecordResponse], error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/v1/payrolls"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out dto.ListResponse[*dto.PayrollRecordResponse]
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayroll returns one history record.
func (c *Client) GetPayroll(ctx context.Context, id int64) (*dto.PayrollRecordResponse, error) {
	var out dto.PayrollRecordResponse
	if _, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/v1/payrolls/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report is a downloaded report file.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DownloadReport fetches the report of a stored run.
func (c *Client) DownloadReport(ctx context.Context, id int64, format string) (*Report, error) {
	path := fmt.Sprintf("/api/v1/payrolls/%d/report", id)
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("payroll_%d.%s", id, format)
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}

	return &Report{
		Filename:    filename,
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}, nil
}

// CheckConsistency runs the ledger consistency check. An inconsistent ledger
// is a result, not an error.
func (c *Client) CheckConsistency(ctx context.Context) (*dto.ConsistencyResponse, error) {
	var out dto.ConsistencyResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/api/v1/ledger/consistency", nil, &out)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict && out.Status != "" {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func employeePath(id int64) string {
	return fmt.Sprintf("/api/v1/employees/%d", id)
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// doJSON sends in as JSON and decodes the response into out. On an API error
// the body is still decoded into out when possible.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) (*response, error) {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.do(ctx, method, path, payload)

	var apiErr *APIError
	if err != nil && !errors.As(err, &apiErr) {
		return nil, err
	}

	if out != nil && resp != nil && len(resp.body) > 0 {
		if decodeErr := json.Unmarshal(resp.body, out); decodeErr != nil && err == nil {
			return resp, fmt.Errorf("decode response: %w", decodeErr)
		}
	}

	return resp, err
}

// do sends a request, retrying transport errors and transient statuses with
// exponential backoff. Mutating requests reuse one idempotency key for every
// attempt.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*response, error) {
	var key string
	if method != http.MethodGet {
		key = c.newKey()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval

	var result *response
	attempt := 0

	operation := func() error {
		attempt++

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if key != "" {
			req.Header.Set(idempotencyKeyHeader, key)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		result = &response{status: resp.StatusCode, header: resp.Header, body: data}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, &apiErr.Body)
		if apiErr.Body.Error == "" {
			apiErr.Body.Error = http.StatusText(resp.StatusCode)
		}

		if retryable(method, apiErr) {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("payroll api call failed, retrying")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx), notify)
	if err != nil {
		return result, err
	}
	return result, nil
}

// retryable reports whether an API error is worth another attempt. A 409 on a
// mutating call means the first attempt is still running on the server. A
// persistence failure stored nothing, so the run can be sent again.
func retryable(method string, apiErr *APIError) bool {
	switch apiErr.Status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	case http.StatusConflict:
		return method != http.MethodGet
	case http.StatusInternalServerError:
		return apiErr.Body.Kind == "persistence_failure"
	default:
		return false
	}
}
