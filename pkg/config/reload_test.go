package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foreman/foreman/pkg/config"
	"github.com/foreman/foreman/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReloadManager_TriggerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreman.yaml")
	writeFile(t, path, "weather:\n  mode: rainy\n")

	rm := config.NewReloadManager(path, nil)
	got := make(chan *types.SiteConfig, 1)
	rm.AddCallback(func(cfg *types.SiteConfig, err error) {
		if err != nil {
			t.Errorf("unexpected reload error: %v", err)
		}
		got <- cfg
	})

	rm.TriggerReload()

	select {
	case cfg := <-got:
		if cfg.Weather.Mode != types.WeatherModeRainy {
			t.Errorf("expected rainy, got %s", cfg.Weather.Mode)
		}
	default:
		t.Fatal("callback was not invoked")
	}
}

func TestReloadManager_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreman.yaml")
	writeFile(t, path, "logLevel: loud\n")

	rm := config.NewReloadManager(path, nil)
	var gotErr error
	rm.AddCallback(func(cfg *types.SiteConfig, err error) {
		gotErr = err
	})

	rm.TriggerReload()
	if gotErr == nil {
		t.Fatal("expected validation error")
	}
}

func TestReloadManager_WatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreman.yaml")
	writeFile(t, path, "weather:\n  mode: clear\n")

	rm := config.NewReloadManager(path, nil)
	rm.SetDebouncePeriod(20 * time.Millisecond)

	got := make(chan types.WeatherMode, 4)
	rm.AddCallback(func(cfg *types.SiteConfig, err error) {
		if err == nil {
			got <- cfg.Weather.Mode
		}
	})

	if err := rm.Start(context.Background()); err != nil {
		t.Fatalf("failed to start watching: %v", err)
	}
	defer rm.Stop()

	if err := rm.Start(context.Background()); err == nil {
		t.Error("expected error when starting twice")
	}

	// make sure the new modification time is strictly later
	later := time.Now().Add(2 * time.Second)
	writeFile(t, path, "weather:\n  mode: stormy\n")
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	select {
	case mode := <-got:
		if mode != types.WeatherModeStormy {
			t.Errorf("expected stormy, got %s", mode)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
