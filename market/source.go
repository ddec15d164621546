// Package market sits between the refresh driver and the CoinGecko client:
// it memoizes each fetch by its full argument tuple with a per-operation TTL,
// and resolves which requested ids the API silently dropped.
package market

import (
	"context"
	"strconv"
	"time"

	"coin-dash/cache"
	"coin-dash/coingecko"
)

const (
	pingTTL    = 60 * time.Second
	quotesTTL  = 30 * time.Second
	historyTTL = 120 * time.Second
)

type Fetcher interface {
	Ping(ctx context.Context) (time.Duration, bool)
	FetchQuotes(ctx context.Context, currency string, ids []string) ([]coingecko.Quote, error)
	FetchHistory(ctx context.Context, id, currency string, days int) []coingecko.PricePoint
}

type Source struct {
	fetcher Fetcher
	store   *cache.Store
}

func NewSource(fetcher Fetcher, store *cache.Store) *Source {
	return &Source{fetcher: fetcher, store: store}
}

type pingResult struct {
	latency time.Duration
	ok      bool
}

func (s *Source) Ping(ctx context.Context) (time.Duration, bool) {
	key := cache.Key("ping")
	if v, hit := s.store.Get(key); hit {
		r := v.(pingResult)
		return r.latency, r.ok
	}
	latency, ok := s.fetcher.Ping(ctx)
	// A failed probe is memoized too, the status line lives with 60s staleness
	s.store.Put(key, pingResult{latency, ok}, pingTTL)
	return latency, ok
}

// Quotes returns the market snapshot plus the requested ids that produced no
// row. Fetch errors are not cached, the next call retries upstream.
func (s *Source) Quotes(ctx context.Context, currency string, ids []string) ([]coingecko.Quote, []string, error) {
	key := cache.Key("quotes", append([]string{currency}, ids...)...)
	if v, hit := s.store.Get(key); hit {
		quotes := v.([]coingecko.Quote)
		return quotes, missingIDs(ids, quotes), nil
	}
	quotes, err := s.fetcher.FetchQuotes(ctx, currency, ids)
	if err != nil {
		return nil, nil, err
	}
	s.store.Put(key, quotes, quotesTTL)
	return quotes, missingIDs(ids, quotes), nil
}

func (s *Source) History(ctx context.Context, id, currency string, days int) []coingecko.PricePoint {
	key := cache.Key("history", id, currency, strconv.Itoa(days))
	if v, hit := s.store.Get(key); hit {
		return v.([]coingecko.PricePoint)
	}
	points := s.fetcher.FetchHistory(ctx, id, currency, days)
	// Empty series are cached as well, a broken chart should not hammer the API
	s.store.Put(key, points, historyTTL)
	return points
}

// missingIDs reports requested ids with no matching row, in request order.
func missingIDs(requested []string, quotes []coingecko.Quote) []string {
	found := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		found[q.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
