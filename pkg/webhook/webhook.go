// Package webhook posts run reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bvat-tools/framelog/pkg/config"
	"github.com/bvat-tools/framelog/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxResponseBody caps how much of a reply is kept.
const maxResponseBody = 1024 * 1024

// Headers describing the payload, so receivers can route without
// decoding the body.
const (
	HeaderEvent    = "X-Framelog-Event"
	HeaderSessions = "X-Framelog-Sessions"

	// EventRunFinished is the only event sent: a recording run ended.
	EventRunFinished = "run.finished"
)

// Client sends run reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a run report to a webhook endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fail(fmt.Errorf("failed to marshal report: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "framelog-webhook")
	req.Header.Set(HeaderEvent, EventRunFinished)
	req.Header.Set(HeaderSessions, strconv.Itoa(report.Summary.Sessions))
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// ShouldFire reports whether a webhook with the given trigger fires for
// a run that did or did not record sessions. Unknown triggers behave
// like on_sessions.
func ShouldFire(trigger config.WebhookTrigger, hasSessions bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasSessions
	}
}

// Result pairs a webhook with the outcome of sending to it.
type Result struct {
	Webhook  config.WebhookConfig
	Response *Response
}

// Dispatch sends the report to every webhook whose trigger fires and
// returns one Result per attempted send.
func (c *Client) Dispatch(ctx context.Context, webhooks []config.WebhookConfig, report *output.Report) []Result {
	var results []Result
	for _, wh := range webhooks {
		if !ShouldFire(wh.Trigger, report.HasSessions()) {
			continue
		}
		resp := c.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		results = append(results, Result{Webhook: wh, Response: resp})
	}
	return results
}
