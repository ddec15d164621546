package coingecko

import "time"

// Quote is one row of the /coins/markets response. Percentage changes and FDV
// are nullable upstream, hence the pointers.
type Quote struct {
	ID                    string    `json:"id"`
	Symbol                string    `json:"symbol"`
	Name                  string    `json:"name"`
	CurrentPrice          float64   `json:"current_price"`
	PercentChange1h       *float64  `json:"price_change_percentage_1h_in_currency"`
	PercentChange24h      *float64  `json:"price_change_percentage_24h_in_currency"`
	PercentChange7d       *float64  `json:"price_change_percentage_7d_in_currency"`
	High24h               float64   `json:"high_24h"`
	Low24h                float64   `json:"low_24h"`
	AllTimeHigh           float64   `json:"ath"`
	MarketCap             float64   `json:"market_cap"`
	Volume24h             float64   `json:"total_volume"`
	Rank                  int       `json:"market_cap_rank"`
	FullyDilutedValuation *float64  `json:"fully_diluted_valuation"`
	LastUpdated           time.Time `json:"last_updated"`
}

// PricePoint is one sample of a coin's historical series, chronological order
// as delivered by the API.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}
