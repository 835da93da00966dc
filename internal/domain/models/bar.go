package models

import "time"

// Bar is one OHLCV observation at calendar-period granularity.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// LoadResult is the outcome of one symbol load: either a non-empty bar
// sequence or no data, in both cases with the warnings collected along the
// way. A result with no bars always carries at least one warning.
type LoadResult struct {
	Symbol   string   `json:"symbol"`
	Bars     []Bar    `json:"bars,omitempty"`
	Warnings []string `json:"warnings"`
}

// HasData reports whether the load produced any bars.
func (r LoadResult) HasData() bool { return len(r.Bars) > 0 }

// NoData builds an empty result explained by the given warnings.
func NoData(symbol string, warnings ...string) LoadResult {
	return LoadResult{Symbol: symbol, Warnings: warnings}
}

// WithData builds a populated result with an empty warning list.
func WithData(symbol string, bars []Bar) LoadResult {
	return LoadResult{Symbol: symbol, Bars: bars, Warnings: []string{}}
}
