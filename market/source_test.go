package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"coin-dash/cache"
	"coin-dash/coingecko"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pingCalls    int
	quoteCalls   int
	historyCalls int

	pingOK  bool
	quotes  []coingecko.Quote
	err     error
	history []coingecko.PricePoint
}

func (f *fakeFetcher) Ping(ctx context.Context) (time.Duration, bool) {
	f.pingCalls++
	return 120 * time.Millisecond, f.pingOK
}

func (f *fakeFetcher) FetchQuotes(ctx context.Context, currency string, ids []string) ([]coingecko.Quote, error) {
	f.quoteCalls++
	return f.quotes, f.err
}

func (f *fakeFetcher) FetchHistory(ctx context.Context, id, currency string, days int) []coingecko.PricePoint {
	f.historyCalls++
	return f.history
}

func newTestSource(f *fakeFetcher) (*Source, *time.Time) {
	now := time.Unix(1000, 0)
	store := cache.NewWithClock(func() time.Time { return now })
	return NewSource(f, store), &now
}

func TestQuotesCaching(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{quotes: []coingecko.Quote{{ID: "bitcoin"}, {ID: "ethereum"}}}
	source, now := newTestSource(fetcher)

	ids := []string{"bitcoin", "ethereum"}

	t.Run("second call within ttl hits the cache", func(t *testing.T) {
		_, _, err := source.Quotes(ctx, "usd", ids)
		require.NoError(t, err)
		_, _, err = source.Quotes(ctx, "usd", ids)
		require.NoError(t, err)
		assert.Equal(t, 1, fetcher.quoteCalls)
	})

	t.Run("call after ttl expiry goes upstream", func(t *testing.T) {
		*now = now.Add(31 * time.Second)
		_, _, err := source.Quotes(ctx, "usd", ids)
		require.NoError(t, err)
		assert.Equal(t, 2, fetcher.quoteCalls)
	})

	t.Run("a different argument tuple is a different entry", func(t *testing.T) {
		_, _, err := source.Quotes(ctx, "eur", ids)
		require.NoError(t, err)
		assert.Equal(t, 3, fetcher.quoteCalls)
	})
}

func TestQuotesErrorNotCached(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{err: errors.New("boom")}
	source, _ := newTestSource(fetcher)

	_, _, err := source.Quotes(ctx, "usd", []string{"bitcoin"})
	require.Error(t, err)
	_, _, err = source.Quotes(ctx, "usd", []string{"bitcoin"})
	require.Error(t, err)
	assert.Equal(t, 2, fetcher.quoteCalls, "failures must not be memoized")
}

func TestQuotesReportsMissingIDs(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{quotes: []coingecko.Quote{{ID: "bitcoin"}}}
	source, _ := newTestSource(fetcher)

	quotes, missing, err := source.Quotes(ctx, "usd", []string{"bitcoin", "doesnotexist", "alsonot"})
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
	assert.Equal(t, []string{"doesnotexist", "alsonot"}, missing, "missing ids keep request order")

	t.Run("cache hits still report missing ids", func(t *testing.T) {
		_, missing, err := source.Quotes(ctx, "usd", []string{"bitcoin", "doesnotexist", "alsonot"})
		require.NoError(t, err)
		assert.Equal(t, []string{"doesnotexist", "alsonot"}, missing)
		assert.Equal(t, 1, fetcher.quoteCalls)
	})
}

func TestHistoryCaching(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{history: []coingecko.PricePoint{{Price: 1}, {Price: 2}}}
	source, now := newTestSource(fetcher)

	source.History(ctx, "bitcoin", "usd", 7)
	source.History(ctx, "bitcoin", "usd", 7)
	assert.Equal(t, 1, fetcher.historyCalls)

	t.Run("days is part of the key", func(t *testing.T) {
		source.History(ctx, "bitcoin", "usd", 30)
		assert.Equal(t, 2, fetcher.historyCalls)
	})

	t.Run("expires after its own ttl", func(t *testing.T) {
		*now = now.Add(121 * time.Second)
		source.History(ctx, "bitcoin", "usd", 7)
		assert.Equal(t, 3, fetcher.historyCalls)
	})

	t.Run("empty series is cached too", func(t *testing.T) {
		empty := &fakeFetcher{}
		source, _ := newTestSource(empty)
		assert.Empty(t, source.History(ctx, "bitcoin", "usd", 7))
		assert.Empty(t, source.History(ctx, "bitcoin", "usd", 7))
		assert.Equal(t, 1, empty.historyCalls)
	})
}

func TestPingCaching(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{pingOK: false}
	source, now := newTestSource(fetcher)

	_, ok := source.Ping(ctx)
	assert.False(t, ok)
	source.Ping(ctx)
	assert.Equal(t, 1, fetcher.pingCalls, "a failed probe is memoized as well")

	*now = now.Add(61 * time.Second)
	source.Ping(ctx)
	assert.Equal(t, 2, fetcher.pingCalls)
}
