package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultVendorBaseURL is the Hubtel SMS API root.
const DefaultVendorBaseURL = "https://smsc.hubtel.com"

const sendMessagePath = "/v1/messages/send"

// VendorConfig holds the credentials and transport for the SMS vendor.
type VendorConfig struct {
	ClientID     string
	ClientSecret string
	SenderID     string
	BaseURL      string // defaults to DefaultVendorBaseURL
	HTTPClient   *http.Client
}

// Vendor sends messages through the Hubtel-style SMS API using HTTP Basic
// auth and a form-encoded POST, relaying the vendor's JSON and status code
// back to the caller untouched.
type Vendor struct {
	cfg     VendorConfig
	circuit *gobreaker.CircuitBreaker
}

// NewVendor creates a vendor client.
func NewVendor(cfg VendorConfig) *Vendor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultVendorBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sms-vendor",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// A caller hanging up mid-relay cancels the request; that says
		// nothing about vendor health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Vendor{cfg: cfg, circuit: cb}
}

// Send forwards one message to the vendor. It returns the vendor's HTTP
// status and JSON payload; a payload that fails to parse as JSON is replaced
// by an empty object so callers always relay valid JSON.
func (v *Vendor) Send(ctx context.Context, to, body string) (int, json.RawMessage, error) {
	form := url.Values{}
	form.Set("From", v.cfg.SenderID)
	form.Set("To", to)
	form.Set("Content", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.BaseURL+sendMessagePath, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.SetBasicAuth(v.cfg.ClientID, v.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	result, err := v.circuit.Execute(func() (interface{}, error) {
		return v.cfg.HTTPClient.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, nil, fmt.Errorf("sms vendor circuit open: %w", err)
		}
		return 0, nil, err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read vendor response: %w", err)
	}
	if !json.Valid(raw) {
		raw = []byte("{}")
	}
	return resp.StatusCode, json.RawMessage(raw), nil
}
