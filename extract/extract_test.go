package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantPrice float64
		wantKnown bool
		wantErr   error
	}{
		{
			name: "title and price present",
			html: `<html><body>
				<span id="productTitle">  Sony WH-1000XM5 Headphones  </span>
				<span class="a-price"><span class="a-price-whole">24,990.</span></span>
			</body></html>`,
			wantTitle: "Sony WH-1000XM5 Headphones",
			wantPrice: 24990.0,
			wantKnown: true,
		},
		{
			name: "indian digit grouping",
			html: `<html><body>
				<span id="productTitle">Camera</span>
				<span class="a-price-whole">1,24,999</span>
			</body></html>`,
			wantTitle: "Camera",
			wantPrice: 124999.0,
			wantKnown: true,
		},
		{
			name: "price element missing",
			html: `<html><body>
				<span id="productTitle">Sony WH-1000XM5 Headphones</span>
			</body></html>`,
			wantTitle: "Sony WH-1000XM5 Headphones",
			wantPrice: 0.0,
			wantKnown: false,
		},
		{
			name: "price text malformed",
			html: `<html><body>
				<span id="productTitle">Sony WH-1000XM5 Headphones</span>
				<span class="a-price-whole">Currently unavailable</span>
			</body></html>`,
			wantTitle: "Sony WH-1000XM5 Headphones",
			wantPrice: 0.0,
			wantKnown: false,
		},
		{
			name:    "title element missing",
			html:    `<html><body><span class="a-price-whole">24,990</span></body></html>`,
			wantErr: ErrTitleNotFound,
		},
		{
			name:    "title element empty",
			html:    `<html><body><span id="productTitle">   </span></body></html>`,
			wantErr: ErrTitleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor()
			obs, err := e.Extract(parseDoc(t, tt.html))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				if obs != nil {
					t.Fatalf("Extract() returned observation %+v alongside error", obs)
				}
				return
			}

			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if obs.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", obs.Title, tt.wantTitle)
			}
			if obs.Price != tt.wantPrice {
				t.Errorf("price = %v, want %v", obs.Price, tt.wantPrice)
			}
			if obs.PriceKnown != tt.wantKnown {
				t.Errorf("priceKnown = %v, want %v", obs.PriceKnown, tt.wantKnown)
			}
			if obs.ObservedAt.IsZero() {
				t.Errorf("observedAt is zero")
			}
		})
	}
}

func TestExtractTimestampFromClock(t *testing.T) {
	fixed := time.Date(2026, 8, 29, 10, 30, 15, 999000000, time.Local)
	e := NewExtractor()
	e.now = func() time.Time { return fixed }

	doc := parseDoc(t, `<span id="productTitle">Widget</span>`)
	obs, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	want := fixed.Truncate(time.Second)
	if !obs.ObservedAt.Equal(want) {
		t.Fatalf("observedAt = %v, want %v", obs.ObservedAt, want)
	}
}

func TestExtractCustomSelectors(t *testing.T) {
	e := &Extractor{
		TitleSelector: "h1.product-name",
		PriceSelector: "span.amount",
	}

	doc := parseDoc(t, `<h1 class="product-name">Kettle</h1><span class="amount">1,299</span>`)
	obs, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if obs.Title != "Kettle" || obs.Price != 1299.0 || !obs.PriceKnown {
		t.Fatalf("unexpected observation: %+v", obs)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "grouped thousands", input: "24,000", expected: 24000.0},
		{name: "trailing decimal point", input: "24,990.", expected: 24990.0},
		{name: "indian grouping", input: "1,23,456", expected: 123456.0},
		{name: "surrounding whitespace", input: "  999 ", expected: 999.0},
		{name: "plain digits", input: "42", expected: 42.0},
		{name: "zero", input: "0", expected: 0.0},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "non numeric", input: "unavailable", wantErr: true},
		{name: "mixed", input: "12a", wantErr: true},
		{name: "negative", input: "-42", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
