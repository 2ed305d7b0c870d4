package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultPath = "/summarize_ame_report"

type Options struct {
	BaseURL string
	Path    string
	APIKey  string
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client calls the summarization service over HTTP. Calls are never retried.
type Client struct {
	baseURL string
	path    string
	apiKey  string
	timeout time.Duration

	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = defaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		path:       path,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		httpClient: hc,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// HTTPError is a non-2xx reply from the service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 256 {
		body = body[:256]
	}
	if body == "" {
		return fmt.Sprintf("summarizer http %d", e.StatusCode)
	}
	return fmt.Sprintf("summarizer http %d: %s", e.StatusCode, body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

func (c *Client) Summarize(ctx context.Context, reportContent string) (*Result, error) {
	ctx, span := otel.Tracer("compcase/summarizer").Start(ctx, "summarizer.Summarize")
	defer span.End()
	span.SetAttributes(
		attribute.String("summarizer.url", c.baseURL+c.path),
		attribute.Int("summarizer.content_bytes", len(reportContent)),
	)

	var out Result
	raw, err := c.doJSON(ctx, http.MethodPost, c.path, request{ReportContent: reportContent}, &out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarizer request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("summarizer read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("summarizer decode response: %w", err)
		}
	}
	return raw, nil
}
