package display

import (
	"math"
	"testing"
	"time"

	"coin-dash/coingecko"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	t.Run("positive", func(t *testing.T) {
		assert.Equal(t, Positive, Classify(fp(5.2)))
	})
	t.Run("negative", func(t *testing.T) {
		assert.Equal(t, Negative, Classify(fp(-3.1)))
	})
	t.Run("nil is indeterminate", func(t *testing.T) {
		assert.Equal(t, Indeterminate, Classify(nil))
	})
	t.Run("NaN is indeterminate", func(t *testing.T) {
		assert.Equal(t, Indeterminate, Classify(fp(math.NaN())))
	})
	t.Run("zero counts as negative", func(t *testing.T) {
		// Strictly-greater-than-zero test, zero never shows green
		assert.Equal(t, Negative, Classify(fp(0)))
	})
}

func TestFormatting(t *testing.T) {
	t.Run("price gets 4 decimals and grouping", func(t *testing.T) {
		assert.Equal(t, "1,234.5000", Price(1234.5))
	})
	t.Run("whole number gets grouping only", func(t *testing.T) {
		assert.Equal(t, "1,234,567", WholeNumber(1234567))
	})
	t.Run("percent gets 2 decimals", func(t *testing.T) {
		assert.Equal(t, "5.20", Percent(fp(5.2)))
		assert.Equal(t, "-3.10", Percent(fp(-3.1)))
	})
	t.Run("missing percent renders as em-dash", func(t *testing.T) {
		assert.Equal(t, EmDash, Percent(nil))
		assert.Equal(t, EmDash, Percent(fp(math.NaN())))
	})
	t.Run("missing FDV renders as em-dash", func(t *testing.T) {
		assert.Equal(t, EmDash, WholeNumberPtr(nil))
		assert.Equal(t, "42", WholeNumberPtr(fp(42)))
	})
}

func TestHeaders(t *testing.T) {
	headers := Headers("usd")
	assert.Len(t, headers, 14)
	assert.Contains(t, headers, "Price (USD)")

	assert.Contains(t, Headers("idr"), "Price (IDR)")
}

func quoteFixture() *coingecko.Quote {
	return &coingecko.Quote{
		ID:               "bitcoin",
		Symbol:           "btc",
		Name:             "Bitcoin",
		CurrentPrice:     65123.45,
		PercentChange1h:  fp(0.12),
		PercentChange24h: fp(-1.5),
		High24h:          66000,
		Low24h:           64000,
		AllTimeHigh:      73000,
		MarketCap:        1234567890,
		Volume24h:        98765432,
		Rank:             1,
		LastUpdated:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProject(t *testing.T) {
	row := Project(quoteFixture())

	assert.Equal(t, "btc", row.Symbol)
	assert.Equal(t, "Bitcoin", row.Name)
	assert.Equal(t, "65,123.4500", row.Price)
	assert.Equal(t, Cell{"0.12", Positive}, row.Change1h)
	assert.Equal(t, Cell{"-1.50", Negative}, row.Change24h)
	assert.Equal(t, Cell{EmDash, Indeterminate}, row.Change7d)
	assert.Equal(t, "1,234,567,890", row.MarketCap)
	assert.Equal(t, "98,765,432", row.Volume24h)
	assert.Equal(t, "1", row.Rank)
	assert.Equal(t, EmDash, row.FDV)
}

func TestBuildCard(t *testing.T) {
	card := BuildCard(quoteFixture(), "usd")

	assert.Equal(t, "Bitcoin (BTC)", card.Label)
	assert.Equal(t, "65,123.4500 USD", card.Value)
	assert.Equal(t, Cell{"-1.50%", Negative}, card.Delta)

	t.Run("missing delta stays an em-dash", func(t *testing.T) {
		q := quoteFixture()
		q.PercentChange24h = nil
		card := BuildCard(q, "usd")
		assert.Equal(t, Cell{EmDash, Indeterminate}, card.Delta)
	})
}
