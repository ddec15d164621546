// Package display projects raw quotes into the 14 display columns and the
// per-coin summary cards, applying the numeric formatting and delta
// classification rules.
package display

import (
	"math"
	"strconv"
	"strings"

	"coin-dash/coingecko"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmDash renders "no data" cells, e.g. a percentage CoinGecko returned null for.
const EmDash = "—"

type Classification int

const (
	Indeterminate Classification = iota
	Positive
	Negative
)

// Classify buckets a delta for coloring. Zero counts as Negative on purpose:
// the strictly-greater-than-zero test matches the long-standing dashboard
// behavior, only a real gain shows green.
func Classify(v *float64) Classification {
	if v == nil || math.IsNaN(*v) {
		return Indeterminate
	}
	if *v > 0 {
		return Positive
	}
	return Negative
}

// Thousands grouping follows the en locale regardless of quote currency
var printer = message.NewPrinter(language.English)

// Price formats prices, highs/lows and ATH: 4 decimals, grouped.
func Price(v float64) string {
	return printer.Sprintf("%.4f", v)
}

// Percent formats percentage deltas: 2 decimals, em-dash when absent.
func Percent(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return EmDash
	}
	return printer.Sprintf("%.2f", *v)
}

// WholeNumber formats market cap, volume and FDV: integer precision, grouped.
func WholeNumber(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func WholeNumberPtr(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return EmDash
	}
	return WholeNumber(*v)
}

// Headers returns the 14 display column labels. Only the price label depends
// on the quote currency.
func Headers(currency string) []string {
	return []string{
		"Symbol",
		"Coin",
		"Price (" + strings.ToUpper(currency) + ")",
		"1H %",
		"24H %",
		"7D %",
		"24H High",
		"24H Low",
		"All Time High",
		"Market Cap",
		"Volume 24H",
		"Rank",
		"FDV",
		"Last Update",
	}
}

// Cell is a formatted value plus its coloring bucket.
type Cell struct {
	Text  string
	Class Classification
}

// Row is one quote projected onto the display columns.
type Row struct {
	Symbol      string
	Name        string
	Price       string
	Change1h    Cell
	Change24h   Cell
	Change7d    Cell
	High24h     string
	Low24h      string
	AllTimeHigh string
	MarketCap   string
	Volume24h   string
	Rank        string
	FDV         string
	LastUpdate  string
}

func Project(q *coingecko.Quote) Row {
	return Row{
		Symbol:      q.Symbol,
		Name:        q.Name,
		Price:       Price(q.CurrentPrice),
		Change1h:    Cell{Percent(q.PercentChange1h), Classify(q.PercentChange1h)},
		Change24h:   Cell{Percent(q.PercentChange24h), Classify(q.PercentChange24h)},
		Change7d:    Cell{Percent(q.PercentChange7d), Classify(q.PercentChange7d)},
		High24h:     Price(q.High24h),
		Low24h:      Price(q.Low24h),
		AllTimeHigh: Price(q.AllTimeHigh),
		MarketCap:   WholeNumber(q.MarketCap),
		Volume24h:   WholeNumber(q.Volume24h),
		Rank:        strconv.Itoa(q.Rank),
		FDV:         WholeNumberPtr(q.FullyDilutedValuation),
		LastUpdate:  q.LastUpdated.Local().Format("15:04:05"),
	}
}

// Card is the compact per-coin summary above the table.
type Card struct {
	Label string
	Value string
	Delta Cell
}

func BuildCard(q *coingecko.Quote, currency string) Card {
	delta := Cell{Percent(q.PercentChange24h), Classify(q.PercentChange24h)}
	if delta.Text != EmDash {
		delta.Text += "%"
	}
	return Card{
		Label: q.Name + " (" + strings.ToUpper(q.Symbol) + ")",
		Value: Price(q.CurrentPrice) + " " + strings.ToUpper(currency),
		Delta: delta,
	}
}
