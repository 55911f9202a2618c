package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client posts messages to a configured relay endpoint with a shared token.
// It is the caller-side counterpart of Handler.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a relay client for the given endpoint and shared token.
func NewClient(endpoint, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{endpoint: endpoint, token: token, httpClient: httpClient}
}

// SendSMS posts a message through the relay. On a non-success HTTP status the
// returned error's text is the relay's response body.
func (c *Client) SendSMS(ctx context.Context, to, message string) (json.RawMessage, error) {
	if c.endpoint == "" {
		return nil, errors.New("sms relay endpoint is not configured")
	}

	payload, err := json.Marshal(sendRequest{To: to, Body: message, Token: c.token})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(string(body))
	}
	return json.RawMessage(body), nil
}
