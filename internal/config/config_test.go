package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Analysis.HeaderZonePct != 0.15 {
		t.Errorf("header zone: got %v, want 0.15", cfg.Analysis.HeaderZonePct)
	}
	if cfg.Analysis.FooterZoneStart != 0.85 {
		t.Errorf("footer zone start: got %v, want 0.85", cfg.Analysis.FooterZoneStart)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("workers: got %d, want 4", cfg.Batch.Workers)
	}
	if !cfg.Library.AutoSave {
		t.Error("expected auto_save on by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level: got %s, want info", cfg.Log.Level)
	}
}

func TestToAnalyzerOptions(t *testing.T) {
	t.Run("zero config falls back to defaults", func(t *testing.T) {
		var cfg Config
		opts := cfg.ToAnalyzerOptions()
		if opts.HeaderZonePct != 0.15 {
			t.Errorf("header zone: got %v, want 0.15", opts.HeaderZonePct)
		}
		if opts.TableMinColumns != 3 {
			t.Errorf("min columns: got %d, want 3", opts.TableMinColumns)
		}
	})

	t.Run("set values override defaults", func(t *testing.T) {
		cfg := Config{Analysis: AnalysisCfg{HeaderZonePct: 0.2, TableMinColumns: 4}}
		opts := cfg.ToAnalyzerOptions()
		if opts.HeaderZonePct != 0.2 {
			t.Errorf("header zone: got %v, want 0.2", opts.HeaderZonePct)
		}
		if opts.TableMinColumns != 4 {
			t.Errorf("min columns: got %d, want 4", opts.TableMinColumns)
		}
		// Unset fields keep defaults
		if opts.FooterZoneStart != 0.85 {
			t.Errorf("footer zone start: got %v, want 0.85", opts.FooterZoneStart)
		}
	})
}

func TestBatchAccessors(t *testing.T) {
	var cfg Config
	if cfg.Workers() != 4 {
		t.Errorf("workers fallback: got %d, want 4", cfg.Workers())
	}
	if cfg.RetryAttempts() != 3 {
		t.Errorf("retry attempts fallback: got %d, want 3", cfg.RetryAttempts())
	}

	cfg.Batch = BatchCfg{Workers: 8, RetryAttempts: 1}
	if cfg.Workers() != 8 {
		t.Errorf("workers: got %d, want 8", cfg.Workers())
	}
	if cfg.RetryAttempts() != 1 {
		t.Errorf("retry attempts: got %d, want 1", cfg.RetryAttempts())
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
batch:
  workers: 12
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Batch.Workers != 12 {
			t.Errorf("expected 12 workers, got %d", cfg.Batch.Workers)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Register multiple callbacks
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Call Get concurrently to verify no race conditions
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Log.Level
			}
			done <- struct{}{}
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	// Verify initial value
	if got := mgr.Get().Log.Level; got != "info" {
		t.Errorf("initial value mismatch: expected info, got %s", got)
	}

	// Track callback invocations
	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Log.Level)
	})

	// Start watching
	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Error("callback was not invoked after config file change")
	}

	if got := mgr.Get().Log.Level; got != "debug" {
		t.Errorf("config not updated: expected debug, got %s", got)
	}

	if v := lastValue.Load(); v != "debug" {
		t.Errorf("callback received wrong value: expected debug, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("written config is empty")
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if got := mgr.Get().Analysis.FooterZoneStart; got != 0.85 {
		t.Errorf("footer zone start: got %v, want 0.85", got)
	}
}
