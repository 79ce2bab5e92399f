// Package identity is the HTTP client for the identity service the
// authentication flow talks to.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/harvestlink/farmgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 15 * time.Second

// Client calls the identity service over HTTP.
//
// Rejections (any non-2xx carrying a message body) come back as business
// errors with the upstream message verbatim; transport and decode failures
// come back as server errors. The client never retries on its own.
type Client struct {
	baseURL string
	http    *http.Client
	ins     instrument.Instrumentation
}

// Config configures the identity client.
type Config struct {
	// BaseURL is the identity service origin, e.g. "http://localhost:8081".
	BaseURL string

	// Timeout bounds each request; zero means 15s.
	Timeout time.Duration

	// HTTPClient overrides the underlying client; used by tests.
	HTTPClient *http.Client
}

// NewClient creates an identity client.
func NewClient(cfg Config, ins instrument.Instrumentation) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    hc,
		ins:     ins,
	}
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("authflow.outbound.identity").Start(ctx, name)
}

func (c *Client) endSpan(span trace.Span, err error) {
	var gerr *goerror.Error
	if err != nil && (!errors.As(err, &gerr) || gerr.Type() == goerror.TypeServer) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// envelope is the success wrapper every identity endpoint responds with.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// failure is the error wrapper; only the message matters to callers.
type failure struct {
	Message string `json:"message"`
}

// post sends a JSON body and decodes the data portion of the response into
// out. A nil out discards the payload.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return goerror.NewServer(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return goerror.NewServer(err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return goerror.NewServer(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return goerror.NewServer(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var f failure
		if err := json.Unmarshal(raw, &f); err == nil && f.Message != "" {
			return goerror.NewBusiness(f.Message, codeFromStatus(res.StatusCode))
		}
		return goerror.NewServer(fmt.Errorf("identity: unexpected status %d from %s", res.StatusCode, path))
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return goerror.NewServer(fmt.Errorf("identity: malformed response from %s: %w", path, err))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return goerror.NewServer(fmt.Errorf("identity: malformed payload from %s: %w", path, err))
	}
	return nil
}

func codeFromStatus(status int) goerror.Code {
	switch status {
	case http.StatusNotFound:
		return goerror.CodeNotFound
	case http.StatusConflict:
		return goerror.CodeConflict
	case http.StatusUnauthorized:
		return goerror.CodeUnauthorized
	case http.StatusForbidden:
		return goerror.CodeForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return goerror.CodeInvalidInput
	default:
		return goerror.CodeInternal
	}
}
