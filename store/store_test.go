package store

import (
	"path/filepath"
	"testing"

	"github.com/aluiziolira/go-price-tracker/config"
)

func testConfig(t *testing.T, backend, filename string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.StoreBackend = backend
	cfg.StorePath = filepath.Join(t.TempDir(), filename)
	return cfg
}
