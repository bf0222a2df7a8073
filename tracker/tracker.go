// Package tracker sequences one fetch-extract-append pass.
package tracker

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-price-tracker/config"
	"github.com/aluiziolira/go-price-tracker/models"
	"github.com/aluiziolira/go-price-tracker/store"
)

// Fetcher retrieves the raw product page.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Extractor turns a parsed document into an observation.
type Extractor interface {
	Extract(doc *goquery.Document) (*models.Observation, error)
}

// Tracker wires the fetcher, extractor and store for a single run.
type Tracker struct {
	cfg       *config.Config
	fetcher   Fetcher
	extractor Extractor
	store     store.Store
	Metrics   *Metrics
}

// New builds a tracker from its collaborators.
func New(cfg *config.Config, fetcher Fetcher, extractor Extractor, st store.Store) *Tracker {
	return &Tracker{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		store:     st,
		Metrics:   NewMetrics(),
	}
}

// Run executes one pass: Init, fetch, parse, extract, append. A missing
// price downgrades the run to a degraded success; everything else that
// goes wrong fails the run with the failing step in the error.
func (t *Tracker) Run(ctx context.Context) (*models.RunResult, error) {
	start := time.Now()
	result := &models.RunResult{
		StartTime: start,
		Backend:   t.cfg.StoreBackend,
		StorePath: t.cfg.StorePath,
	}
	defer func() {
		result.EndTime = time.Now()
		t.Metrics.ObserveRunDuration(result.EndTime.Sub(start))
	}()

	if err := t.store.Init(); err != nil {
		return result, fmt.Errorf("store init: %w", err)
	}

	body, err := t.fetcher.Fetch(ctx)
	if err != nil {
		t.Metrics.IncFetch("error")
		return result, fmt.Errorf("fetch product page: %w", err)
	}
	t.Metrics.IncFetch("ok")
	slog.Info("product page fetched", slog.Int("bytes", len(body)))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Metrics.IncExtraction("parse_error")
		return result, fmt.Errorf("parse product page: %w", err)
	}

	obs, err := t.extractor.Extract(doc)
	if err != nil {
		t.Metrics.IncExtraction("title_not_found")
		return result, fmt.Errorf("extract observation: %w", err)
	}
	result.Observation = obs

	if obs.PriceKnown {
		t.Metrics.IncExtraction("ok")
		t.Metrics.SetLastPrice(obs.Price)
		slog.Info("price found",
			slog.String("title", truncate(obs.Title, 40)),
			slog.Float64("price", obs.Price),
		)
	} else {
		result.Degraded = true
		t.Metrics.IncExtraction("degraded")
		slog.Warn("price element not found, recording sentinel",
			slog.String("title", truncate(obs.Title, 40)),
		)
	}

	if err := t.store.Append(obs); err != nil {
		t.Metrics.IncStoreWrite("error")
		return result, fmt.Errorf("store append: %w", err)
	}
	t.Metrics.IncStoreWrite("ok")
	result.Persisted = true
	slog.Info("observation saved",
		slog.String("backend", t.cfg.StoreBackend),
		slog.String("path", t.cfg.StorePath),
	)

	return result, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
