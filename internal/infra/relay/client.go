package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kveer007/tracker-reminders/internal/observability/tracing"
)

// DefaultTimeout bounds every relay call. A call exceeding it counts
// as a failed delivery attempt, not an error to retry.
const DefaultTimeout = 8 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Health(ctx context.Context) error {
	ctx, span := tracing.StartRelaySpan(ctx, "health", c.baseURL)
	defer span.End()

	resp, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) VAPIDPublicKey(ctx context.Context) (string, error) {
	ctx, span := tracing.StartRelaySpan(ctx, "vapid_public_key", c.baseURL)
	defer span.End()

	resp, err := c.get(ctx, "/vapid-public-key")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload struct {
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.PublicKey == "" {
		return "", fmt.Errorf("relay returned an empty public key")
	}
	return payload.PublicKey, nil
}

func (c *Client) Subscribe(ctx context.Context, subscription json.RawMessage, userID string) error {
	ctx, span := tracing.StartRelaySpan(ctx, "subscribe", c.baseURL)
	defer span.End()

	body := struct {
		Subscription json.RawMessage `json:"subscription"`
		UserID       string          `json:"userId"`
	}{
		Subscription: subscription,
		UserID:       userID,
	}

	resp, err := c.post(ctx, "/subscribe", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) SendNotification(ctx context.Context, req *SendRequest) (*SendResult, error) {
	ctx, span := tracing.StartRelaySpan(ctx, "send_notification", c.baseURL)
	defer span.End()

	resp, err := c.post(ctx, "/send-notification", req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send notification through relay",
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.ErrorContext(ctx, "unexpected status code from relay",
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result SendResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	ctx, span := tracing.StartRelaySpan(ctx, "stats", c.baseURL)
	defer span.End()

	resp, err := c.get(ctx, "/stats")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return json.RawMessage(raw), nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	return u.JoinPath(path).String(), nil
}
