// Package extract locates the product title and price in a parsed page.
package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-price-tracker/models"
)

// Default selectors for the markup contracts the page is expected to
// keep stable: the main heading element and the whole-number portion of
// the localized price display.
const (
	DefaultTitleSelector = "#productTitle"
	DefaultPriceSelector = ".a-price-whole"
)

// ErrTitleNotFound is returned when the page carries no usable title.
// It is terminal for the run; no record is written.
var ErrTitleNotFound = errors.New("title element not found")

// Extractor converts a parsed document into an Observation. The
// selectors live here so a page layout change touches exactly one place.
type Extractor struct {
	TitleSelector string
	PriceSelector string

	now func() time.Time
}

// NewExtractor returns an extractor with the default selectors.
func NewExtractor() *Extractor {
	return &Extractor{
		TitleSelector: DefaultTitleSelector,
		PriceSelector: DefaultPriceSelector,
		now:           time.Now,
	}
}

// Extract composes an Observation from doc.
//
// A missing title fails the extraction. A missing or malformed price
// does not: the observation carries the 0.0 sentinel with
// PriceKnown=false, since a title without a price is still a usable
// trend data point.
func (e *Extractor) Extract(doc *goquery.Document) (*models.Observation, error) {
	title := strings.TrimSpace(doc.Find(e.TitleSelector).First().Text())
	if title == "" {
		return nil, ErrTitleNotFound
	}

	obs := &models.Observation{
		Title:      title,
		ObservedAt: e.clock().Truncate(time.Second),
	}

	priceSel := doc.Find(e.PriceSelector).First()
	if priceSel.Length() == 0 {
		return obs, nil
	}

	price, err := ParsePrice(priceSel.Text())
	if err != nil {
		// Malformed price text falls back to the sentinel, same as absent.
		return obs, nil
	}

	obs.Price = price
	obs.PriceKnown = true
	return obs, nil
}

func (e *Extractor) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// ParsePrice converts the rendered integer portion of a localized price
// to its numeric value, stripping thousands separators and any decimal
// point ("24,990." -> 24990.0).
func ParsePrice(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price text")
	}

	whole, err := strconv.ParseUint(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	return float64(whole), nil
}
