// Package passimpay implements the HTTP client for the Passimpay
// hosted-checkout API. Requests are form-urlencoded POSTs carrying an
// HMAC signature computed by the caller; responses are JSON.
package passimpay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.ProcessorClient against the Passimpay API.
type Client struct {
	createOrderURL string
	orderStatusURL string
	httpClient     HTTPClient
	log            zerolog.Logger
}

// NewClient creates a new Passimpay API client. When httpClient is nil a
// default client with the configured timeout is used.
func NewClient(cfg config.PassimpayConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		createOrderURL: cfg.CreateOrderURL,
		orderStatusURL: cfg.OrderStatusURL,
		httpClient:     httpClient,
		log:            log,
	}
}

// CreateOrder registers an order with the processor and returns the hosted
// checkout URL on success. Raw preserves the response body verbatim.
func (c *Client) CreateOrder(ctx context.Context, req ports.CreateOrderRequest) (*ports.CreateOrderResult, error) {
	form := url.Values{}
	form.Set("platform_id", req.PlatformID)
	form.Set("order_id", req.OrderID)
	form.Set("amount", req.Amount)
	form.Set("hash", req.Hash)
	form.Set("app_id", req.AppID)
	form.Set("merchant_id", req.MerchantID)

	body, err := c.post(ctx, "createorder", c.createOrderURL, form)
	if err != nil {
		return nil, err
	}

	result := &ports.CreateOrderResult{Raw: body}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, &ports.UpstreamError{
			Op:          "createorder",
			Message:     "malformed response body",
			RawResponse: string(body),
			Err:         err,
		}
	}
	return result, nil
}

// OrderStatus queries the processor for the authoritative order status.
func (c *Client) OrderStatus(ctx context.Context, req ports.OrderStatusRequest) (*ports.OrderStatusResult, error) {
	form := url.Values{}
	form.Set("platform_id", req.PlatformID)
	form.Set("order_id", req.OrderID)
	form.Set("hash", req.Hash)

	body, err := c.post(ctx, "orderstatus", c.orderStatusURL, form)
	if err != nil {
		return nil, err
	}

	result := &ports.OrderStatusResult{Raw: body}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, &ports.UpstreamError{
			Op:          "orderstatus",
			Message:     "malformed response body",
			RawResponse: string(body),
			Err:         err,
		}
	}
	return result, nil
}

// post issues a form POST and returns the response body. Any transport
// failure or non-2xx status becomes an UpstreamError carrying whatever
// body and headers were received.
func (c *Client) post(ctx context.Context, op, endpoint string, form url.Values) ([]byte, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ports.UpstreamError{Op: op, Message: "building request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ports.UpstreamError{Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.UpstreamError{
			Op:         op,
			Message:    "reading response body",
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Err:        err,
		}
	}

	c.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("processor request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ports.UpstreamError{
			Op:          op,
			Message:     "unexpected HTTP status " + resp.Status,
			StatusCode:  resp.StatusCode,
			RawResponse: string(body),
			Headers:     resp.Header,
		}
	}

	return body, nil
}
