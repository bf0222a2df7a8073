// Package models defines data structures for the price tracker.
package models

import "time"

// TimestampLayout is the persisted timestamp format for both store backends.
const TimestampLayout = "2006-01-02 15:04:05"

// Observation represents one price check of the tracked product.
//
// Price carries the sentinel 0.0 when the page rendered no parseable
// price; PriceKnown distinguishes that case in memory. Only title, price
// and timestamp are persisted.
type Observation struct {
	Title      string    `csv:"title" json:"title"`
	Price      float64   `csv:"price" json:"price"`
	PriceKnown bool      `csv:"-" json:"price_known"`
	ObservedAt time.Time `csv:"timestamp" json:"timestamp"`
}

// Timestamp renders ObservedAt in the persisted layout.
func (o *Observation) Timestamp() string {
	return o.ObservedAt.Format(TimestampLayout)
}

// RunResult holds the overall outcome of a tracking run.
type RunResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Observation *Observation
	Degraded    bool // title found but price fell back to the sentinel
	Persisted   bool
	Backend     string
	StorePath   string
}
