package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-price-tracker/config"
	"github.com/aluiziolira/go-price-tracker/extract"
	"github.com/aluiziolira/go-price-tracker/fetch"
	"github.com/aluiziolira/go-price-tracker/models"
	"github.com/aluiziolira/go-price-tracker/store"
	"github.com/aluiziolira/go-price-tracker/tracker"
)

func main() {
	defaultCfg := config.DefaultConfig()

	urlDefault := defaultCfg.ProductURL
	if value, ok := config.EnvString("TRACKER_URL"); ok {
		urlDefault = value
	}
	backendDefault := defaultCfg.StoreBackend
	if value, ok := config.EnvString("TRACKER_BACKEND"); ok {
		backendDefault = value
	}
	storeDefault := defaultCfg.StorePath
	if value, ok := config.EnvString("TRACKER_STORE"); ok {
		storeDefault = value
	}
	gatewayDefault := defaultCfg.PushGateway
	if value, ok := config.EnvString("TRACKER_PUSH_GATEWAY"); ok {
		gatewayDefault = value
	}
	timeoutDefault := int(defaultCfg.Timeout / time.Second)
	if value, ok, err := config.EnvInt("TRACKER_TIMEOUT_SECONDS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid TRACKER_TIMEOUT_SECONDS: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}

	productURL := flag.String("url", urlDefault, "Product page URL to track")
	backend := flag.String("backend", backendDefault, "Store backend: csv or sqlite")
	storePath := flag.String("store", storeDefault, "Store location (file path)")
	pushGateway := flag.String("push-gateway", gatewayDefault, "Prometheus Pushgateway address (empty disables push)")
	timeoutSec := flag.Int("timeout", timeoutDefault, "Fetch timeout (seconds)")
	userAgent := flag.String("user-agent", defaultCfg.UserAgent, "User-Agent request header")
	acceptLanguage := flag.String("accept-language", defaultCfg.AcceptLanguage, "Accept-Language request header")
	historyLimit := flag.Int("history", 0, "Print the last N stored observations and exit")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, _ := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg := defaultCfg
	cfg.ProductURL = *productURL
	cfg.StoreBackend = *backend
	cfg.StorePath = *storePath
	cfg.PushGateway = *pushGateway
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.UserAgent = *userAgent
	cfg.AcceptLanguage = *acceptLanguage
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	st, err := store.New(cfg)
	if err != nil {
		slog.Error("creating store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("close store", slog.Any("error", err))
		}
	}()

	if *historyLimit > 0 {
		if err := printHistory(st, *historyLimit); err != nil {
			slog.Error("reading history", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	fetcher, err := fetch.NewFetcher(cfg)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("checking price",
		slog.String("url", cfg.ProductURL),
		slog.String("backend", cfg.StoreBackend),
	)

	t := tracker.New(cfg, fetcher, extract.NewExtractor(), st)
	result, runErr := t.Run(ctx)

	if cfg.PushGateway != "" {
		if err := t.Metrics.Push(cfg.PushGateway); err != nil {
			slog.Error("metrics push failed", slog.Any("error", err))
		}
	}

	printSummary(result, runErr)
	if runErr != nil {
		os.Exit(1)
	}
}

func printHistory(st store.Store, limit int) error {
	observations, err := st.History(limit)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		fmt.Println("no observations recorded yet")
		return nil
	}
	for _, obs := range observations {
		fmt.Printf("%s  %10.1f  %s\n", obs.Timestamp(), obs.Price, obs.Title)
	}
	return nil
}

func printSummary(result *models.RunResult, runErr error) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	if runErr != nil {
		fmt.Println("Price check failed")
		fmt.Printf("  Cause:     %v\n", runErr)
	} else {
		fmt.Println("Price check complete")
	}

	if result != nil {
		if result.Observation != nil {
			fmt.Printf("  Product:   %s\n", result.Observation.Title)
			if result.Degraded {
				fmt.Println("  Price:     not found (sentinel 0.0 recorded)")
			} else {
				fmt.Printf("  Price:     %.1f\n", result.Observation.Price)
			}
		}
		if result.Persisted {
			fmt.Printf("  Saved to:  %s (%s)\n", result.StorePath, result.Backend)
		} else {
			fmt.Println("  Saved to:  nothing persisted")
		}
		fmt.Printf("  Duration:  %v\n", result.EndTime.Sub(result.StartTime))
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
