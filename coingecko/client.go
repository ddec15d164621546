package coingecko

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"coin-dash/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// https://www.coingecko.com/en/api/documentation
const BaseAPI = "https://api.coingecko.com/api/v3"

// Per-endpoint budgets. Ping is a cheap liveness probe, the data endpoints get
// a bit more headroom.
const (
	pingTimeout    = 5 * time.Second
	quotesTimeout  = 10 * time.Second
	historyTimeout = 10 * time.Second
)

type Client struct {
	*http.Client
	BaseURL string
}

func NewClient(httpClient *http.Client) *Client {
	return &Client{Client: httpClient, BaseURL: BaseAPI}
}

func (c *Client) GetName() string {
	return "CoinGecko"
}

// Ping measures the liveness endpoint round trip. Connectivity problems are a
// status-line concern only, so failure is a bool, not an error.
func (c *Client) Ping(ctx context.Context) (time.Duration, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if _, err := c.Get(ctx, c.BaseURL+"/ping", nil); err != nil {
		logrus.WithError(err).Debugf("%s ping failed", c.GetName())
		return 0, false
	}
	return time.Since(start), true
}

// FetchQuotes loads the market snapshot for the given coin ids. Any failure
// here is fatal to the refresh cycle and is returned to the caller. Unknown
// ids are silently absent from the response, the caller decides what to report.
func (c *Client) FetchQuotes(ctx context.Context, currency string, ids []string) ([]Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, quotesTimeout)
	defer cancel()

	respBytes, err := c.Get(ctx, c.BaseURL+"/coins/markets", map[string]string{
		"vs_currency":             currency,
		"ids":                     strings.Join(ids, ","),
		"price_change_percentage": "1h,24h,7d",
	})
	if err != nil {
		if msg := extractError(respBytes); msg != "" {
			return nil, errors.Errorf("coingecko markets: %s", msg)
		}
		return nil, errors.Wrap(err, "coingecko markets")
	}

	var quotes []Quote
	if err := json.Unmarshal(respBytes, &quotes); err != nil {
		return nil, errors.Wrap(err, "coingecko malformed markets response")
	}
	return quotes, nil
}

// FetchHistory loads one coin's price series. A missing chart degrades a
// single panel, never the whole cycle, so every failure collapses to an empty
// slice with a warning. Order is chronological as returned by the API.
func (c *Client) FetchHistory(ctx context.Context, id, currency string, days int) []PricePoint {
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	respBytes, err := c.Get(ctx, c.BaseURL+"/coins/"+id+"/market_chart", map[string]string{
		"vs_currency": currency,
		"days":        strconv.Itoa(days),
	})
	if err != nil {
		logrus.WithError(err).Warnf("%s - Failed to get price history for %s", c.GetName(), id)
		return nil
	}

	// gjson saved my life, no need to struggle with different/weird response types
	pricesV := gjson.GetBytes(respBytes, "prices")
	if !pricesV.IsArray() {
		logrus.Warnf("%s - Malformed market_chart response for %s, missing prices array", c.GetName(), id)
		return nil
	}

	pairs := pricesV.Array()
	points := make([]PricePoint, 0, len(pairs))
	for _, pairV := range pairs {
		pair := pairV.Array()
		if len(pair) != 2 {
			logrus.Warnf("%s - Malformed price pair for %s, expecting 2 elements, got %d", c.GetName(), id, len(pair))
			return nil
		}
		points = append(points, PricePoint{
			Timestamp: time.UnixMilli(pair[0].Int()),
			Price:     pair[1].Float(),
		})
	}
	return points
}

// Check to see if we have an error message in the response body
func extractError(respBytes []byte) string {
	if len(respBytes) == 0 {
		return ""
	}
	if errV := gjson.GetBytes(respBytes, "error"); errV.Exists() {
		return errV.String()
	}
	return gjson.GetBytes(respBytes, "status.error_message").String()
}
