// Package fetch retrieves the raw product page over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aluiziolira/go-price-tracker/config"
	"github.com/gocolly/colly/v2"
)

// Fetcher performs a single synchronous GET against the configured
// product URL. It never retries; a scheduler that wants retries runs the
// whole job again.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector

	mu     sync.Mutex
	body   []byte
	status int
	err    error
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg *config.Config) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.ProductURL)
	if err != nil {
		return nil, fmt.Errorf("parse product url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("product url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	f := &Fetcher{cfg: cfg, collector: collector}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", cfg.AcceptLanguage)
	})
	collector.OnResponse(func(r *colly.Response) {
		f.mu.Lock()
		f.body = r.Body
		f.status = r.StatusCode
		f.mu.Unlock()
	})
	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		f.mu.Lock()
		f.status = status
		f.err = classifyError(err, status)
		f.mu.Unlock()
	})

	return f, nil
}

// Fetch returns the raw response body of the product page.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.body, f.status, f.err = nil, 0, nil
	f.mu.Unlock()

	visitErr := f.collector.Visit(f.cfg.ProductURL)
	f.collector.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if visitErr != nil {
		return nil, classifyError(visitErr, 0)
	}
	if f.status == 0 {
		return nil, ErrConnection{Err: fmt.Errorf("no response received")}
	}
	return f.body, nil
}

func classifyError(err error, statusCode int) error {
	if statusCode != 0 && (statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices) {
		return ErrBadStatus{Code: statusCode, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}
	return err
}
