package config

import "strings"

// Currencies CoinGecko quotes against in this dashboard.
var SupportedCurrencies = []string{"usd", "idr", "eur", "btc"}

// Lookback windows accepted by the market_chart endpoint that we expose.
var SupportedChartDays = []int{1, 7, 14, 30}

const (
	MinRefreshSeconds = 20
	MaxRefreshSeconds = 120
)

type Config struct {
	Coins     []string `mapstructure:"coins"`
	Currency  string   `mapstructure:"currency"`
	Refresh   int      `mapstructure:"refresh"`
	Chart     bool     `mapstructure:"chart"`
	ChartDays int      `mapstructure:"chart-days"`
	Timeout   int      `mapstructure:"timeout"`
	Proxy     string   `mapstructure:"proxy"`
	Debug     bool     `mapstructure:"debug"`
}

// Normalize trims and lower-cases coin ids and the quote currency, and clamps
// out-of-range knobs back to supported values instead of failing.
func (c *Config) Normalize() {
	coins := make([]string, 0, len(c.Coins))
	for _, id := range c.Coins {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			coins = append(coins, id)
		}
	}
	c.Coins = coins

	c.Currency = strings.ToLower(strings.TrimSpace(c.Currency))
	if !containsString(SupportedCurrencies, c.Currency) {
		c.Currency = SupportedCurrencies[0]
	}

	if c.Refresh < MinRefreshSeconds {
		c.Refresh = MinRefreshSeconds
	} else if c.Refresh > MaxRefreshSeconds {
		c.Refresh = MaxRefreshSeconds
	}

	if !containsInt(SupportedChartDays, c.ChartDays) {
		c.ChartDays = SupportedChartDays[0]
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}
