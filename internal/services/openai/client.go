package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resumesmith/internal/logging"
	"resumesmith/internal/payload"
	"resumesmith/internal/services"
)

const (
	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryBaseDelay = 2 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
	defaultRetryAttempts  = 4

	systemRole = "developer"
	userRole   = "user"
)

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the Responses API endpoint. The embedded http.Client is safe
// for concurrent use, so a single Client serves overlapping requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the total attempt budget (defaults to 4:
// one initial attempt plus three retries).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithLogger attaches a logger used to report retry activity.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "openai-client")
		}
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewNop(),
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.openai.com/v1"
	}
	return client
}

// Request describes a single logical generation dispatch.
type Request struct {
	Model              string
	SystemInstructions string
	Blocks             []payload.Block
	MaxOutputTokens    int
	Temperature        float64
}

type wireMessage struct {
	Role    string          `json:"role"`
	Content []payload.Block `json:"content"`
}

type wireRequest struct {
	Model           string        `json:"model"`
	Input           []wireMessage `json:"input"`
	MaxOutputTokens int           `json:"max_output_tokens,omitempty"`
	Temperature     float64       `json:"temperature"`
}

type wireResponse struct {
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	// Some gateways inline the SDK convenience field; tolerate it as a fallback.
	OutputText string `json:"output_text"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details"`
}

// CreateResponse executes the request, retrying transient failures with
// exponential backoff. It returns the extracted model text or a classified
// error. Cancellation of ctx aborts both in-flight dispatches and backoff
// waits.
func (c *Client) CreateResponse(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", services.NewError(services.KindAuthenticationFailed, "api key required")
	}
	if len(req.Blocks) == 0 {
		return "", services.NewError(services.KindMalformedRequest, "request has no content blocks")
	}

	body := wireRequest{
		Model:           req.Model,
		MaxOutputTokens: req.MaxOutputTokens,
		Temperature:     req.Temperature,
	}
	if sys := strings.TrimSpace(req.SystemInstructions); sys != "" {
		body.Input = append(body.Input, wireMessage{
			Role:    systemRole,
			Content: []payload.Block{payload.TextBlock{Text: sys}},
		})
	}
	body.Input = append(body.Input, wireMessage{Role: userRole, Content: req.Blocks})

	attempts := c.retryAttempts()
	delay := c.retryBaseDelay
	var lastErr *services.Error

	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := c.dispatchOnce(ctx, body)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", services.WrapError(services.KindCancelled, ctx.Err(), "generation cancelled")
		}

		classified := classify(err)
		if !classified.Kind.Retryable() {
			return "", classified
		}
		lastErr = classified
		if attempt == attempts {
			break
		}

		wait := c.capDelay(delay)
		if after := retryAfterOf(err); after > wait {
			wait = c.capDelay(after)
		}
		c.logger.Warn("retrying generation request",
			logging.Int(logging.FieldAttempt, attempt),
			logging.Duration("delay", wait),
			logging.String("kind", string(classified.Kind)),
			logging.Error(classified),
		)
		if err := c.sleep(ctx, wait); err != nil {
			return "", services.WrapError(services.KindCancelled, err, "generation cancelled during backoff")
		}
		// Double from the wait actually taken so a large Retry-After never
		// makes the next delay shrink below it.
		delay = c.capDelay(wait * 2)
	}

	return "", services.WrapError(services.KindRetriesExhausted, lastErr,
		"gave up after %d attempts", attempts)
}

func (c *Client) dispatchOnce(ctx context.Context, body wireRequest) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", services.WrapError(services.KindMalformedRequest, err, "encode request body")
	}
	endpoint := c.cfg.BaseURL + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.WrapError(services.KindMalformedRequest, err, "build request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &httpStatusError{
			StatusCode: resp.StatusCode,
			Code:       errorCodeFromBody(raw),
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: retryAfter,
		}
	}

	var decoded wireResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", services.WrapError(services.KindMalformedRequest, err, "decode response")
	}
	if decoded.Error != nil {
		return "", services.NewError(services.KindMalformedRequest,
			"api error: %s", strings.TrimSpace(decoded.Error.Message))
	}

	text := extractOutputText(decoded)
	if strings.TrimSpace(text) == "" {
		reason := "unknown"
		if decoded.IncompleteDetails != nil && decoded.IncompleteDetails.Reason != "" {
			reason = decoded.IncompleteDetails.Reason
		}
		return "", services.NewError(services.KindMalformedRequest,
			"response contained no output text (status=%s, reason=%s)", decoded.Status, reason)
	}
	return text, nil
}

func extractOutputText(resp wireResponse) string {
	var b strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" {
				b.WriteString(content.Text)
			}
		}
	}
	if b.Len() > 0 {
		return b.String()
	}
	return resp.OutputText
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type httpStatusError struct {
	StatusCode int
	Code       string
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("responses request: http %d: %s", e.StatusCode, e.Body)
}

func retryAfterOf(err error) time.Duration {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.RetryAfter
	}
	return 0
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func errorCodeFromBody(raw []byte) string {
	var payload struct {
		Error struct {
			Code string `json:"code"`
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Error.Code != "" {
		return payload.Error.Code
	}
	return payload.Error.Type
}
