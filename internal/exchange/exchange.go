// Package exchange converts amounts between currencies through the
// exchangerate-api pair endpoint. The endpoint multiplies server-side, so a
// single request returns the converted amount directly. There is no retry,
// no fallback rate, and no caching; a failed lookup fails the caller's
// operation.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/util"
)

// UpstreamError reports a reachable endpoint that returned something
// unusable: a non-2xx status, an API-level error result, or a payload
// missing the conversion field.
type UpstreamError struct {
	StatusCode int
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("exchange upstream error: status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("exchange upstream error: %s", e.Reason)
}

type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	currency   string
}

// New builds a client converting into the configured reference currency.
func New(conf config.ExchangeConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: conf.Timeout,
		},
		url:      strings.TrimSuffix(conf.URL, "/"),
		apiKey:   conf.APIKey,
		currency: conf.Currency,
	}
}

// Currency returns the reference currency every conversion targets.
func (c *Client) Currency() string {
	return c.currency
}

const centsPerUnit = 100

type pairResponse struct {
	Result           string   `json:"result"`
	ErrorType        string   `json:"error-type"`
	ConversionResult *float64 `json:"conversion_result"`
}

// Convert turns amount cents of the from currency into cents of the
// reference currency. Transport failures come back wrapped; anything the
// endpoint answered with that is not a usable conversion is an
// *UpstreamError.
func (c *Client) Convert(ctx context.Context, amount int64, from string) (int64, error) {
	url := fmt.Sprintf("%s/v6/%s/pair/%s/%s/%s",
		c.url, c.apiKey, from, c.currency, util.FormatMoney(amount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building exchange request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, &UpstreamError{
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("converting %s to %s", from, c.currency),
		}
	}

	var payload pairResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, &UpstreamError{Reason: fmt.Sprintf("malformed payload: %s", err.Error())}
	}

	if payload.Result != "success" {
		reason := payload.ErrorType
		if reason == "" {
			reason = "unknown error"
		}
		return 0, &UpstreamError{Reason: reason}
	}

	if payload.ConversionResult == nil {
		return 0, &UpstreamError{Reason: "missing conversion_result field"}
	}

	converted := *payload.ConversionResult
	if math.IsNaN(converted) || math.IsInf(converted, 0) {
		return 0, &UpstreamError{Reason: fmt.Sprintf("conversion_result is not a finite number: %f", converted)}
	}

	return int64(math.Round(converted * centsPerUnit)), nil
}
