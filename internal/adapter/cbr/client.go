// Package cbr implements the central-bank daily exchange rate feed client.
// The feed is an XML document of per-currency quotes against the ruble.
package cbr

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"passimpay-gateway/config"
	"passimpay-gateway/internal/core/domain"
	"passimpay-gateway/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.RateSource over the bank's XML feed.
type Client struct {
	feedURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a new rate feed client. When httpClient is nil a
// default client with the configured timeout is used.
func NewClient(cfg config.RatesConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		feedURL:    cfg.FeedURL,
		httpClient: httpClient,
		log:        log,
	}
}

type valCurs struct {
	XMLName xml.Name `xml:"ValCurs"`
	Date    string   `xml:"Date,attr"`
	Valutes []valute `xml:"Valute"`
}

type valute struct {
	CharCode string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

// Fetch downloads and parses the daily rate table. Quote values use a
// decimal comma and a per-currency nominal; rates are normalized to
// rubles per one unit of currency.
func (c *Client) Fetch(ctx context.Context) (*domain.RateTable, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, &ports.UpstreamError{Op: "rates", Message: "building request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ports.UpstreamError{Op: "rates", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.UpstreamError{
			Op:         "rates",
			Message:    "reading response body",
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Err:        err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ports.UpstreamError{
			Op:          "rates",
			Message:     "unexpected HTTP status " + resp.Status,
			StatusCode:  resp.StatusCode,
			RawResponse: string(body),
			Headers:     resp.Header,
		}
	}

	table, err := parseFeed(body)
	if err != nil {
		return nil, &ports.UpstreamError{
			Op:          "rates",
			Message:     "malformed feed",
			StatusCode:  resp.StatusCode,
			RawResponse: string(body),
			Err:         err,
		}
	}

	c.log.Debug().
		Str("date", table.Date).
		Int("currencies", len(table.Rates)).
		Dur("duration", time.Since(start)).
		Msg("rate table fetched")

	return table, nil
}

// parseFeed decodes the XML document into a rate table. The feed declares
// windows-1251 but every field we read is ASCII, so the bytes pass through
// unchanged.
func parseFeed(body []byte) (*domain.RateTable, error) {
	dec := xml.NewDecoder(strings.NewReader(string(body)))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc valCurs
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	table := &domain.RateTable{
		Date:  doc.Date,
		Rates: make(map[string]decimal.Decimal, len(doc.Valutes)),
	}
	for _, v := range doc.Valutes {
		value, err := decimal.NewFromString(strings.Replace(v.Value, ",", ".", 1))
		if err != nil {
			continue // skip unparsable quotes, keep the rest of the table
		}
		nominal, err := decimal.NewFromString(v.Nominal)
		if err != nil || nominal.IsZero() {
			continue
		}
		table.Rates[v.CharCode] = value.Div(nominal)
	}
	return table, nil
}
