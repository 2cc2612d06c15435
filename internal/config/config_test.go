package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingDefaultPath(t *testing.T) {
	chdirT(t, t.TempDir())

	cfg, used, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if used != "" {
		t.Fatalf("expected no config path, got %q", used)
	}
	if cfg.BaseURL != "http://couchbase:8091" || cfg.Quality != 85 || !cfg.Headless {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots.yaml")
	data := "base_url: http://localhost:8091\nquality: 70\ntimeout: 45s\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if used != path {
		t.Fatalf("used = %q, want %q", used, path)
	}
	if cfg.BaseURL != "http://localhost:8091" {
		t.Fatalf("base_url = %q", cfg.BaseURL)
	}
	if cfg.Quality != 70 {
		t.Fatalf("quality = %d", cfg.Quality)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if cfg.ClusterName != "cb-cluster" {
		t.Fatalf("cluster_name default lost: %q", cfg.ClusterName)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots.yaml")
	want := DefaultConfig()
	want.Output = "docs/images"
	want.WaitReady = 2 * time.Minute
	if err := SaveYAML(want, path); err != nil {
		t.Fatalf("SaveYAML() error = %v", err)
	}
	got, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(Options{
		BaseURL:   "http://127.0.0.1:8091/",
		Browser:   "Firefox",
		Headful:   true,
		NoInstall: true,
		Quality:   90,
	})
	if cfg.BaseURL != "http://127.0.0.1:8091" {
		t.Fatalf("base_url = %q", cfg.BaseURL)
	}
	if cfg.Browser != "firefox" {
		t.Fatalf("browser = %q", cfg.Browser)
	}
	if cfg.Headless || cfg.Install {
		t.Fatalf("headful/no-install not applied: %+v", cfg)
	}
	if cfg.Quality != 90 {
		t.Fatalf("quality = %d", cfg.Quality)
	}
	if cfg.Output != "/output" {
		t.Fatalf("output changed without override: %q", cfg.Output)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"ftp scheme", func(c *Config) { c.BaseURL = "ftp://couchbase" }, true},
		{"no host", func(c *Config) { c.BaseURL = "http://" }, true},
		{"quality zero", func(c *Config) { c.Quality = 0 }, true},
		{"quality too high", func(c *Config) { c.Quality = 101 }, true},
		{"unknown browser", func(c *Config) { c.Browser = "netscape" }, true},
		{"webkit", func(c *Config) { c.Browser = "webkit" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"sub-millisecond timeout", func(c *Config) { c.Timeout = 500 * time.Microsecond }, true},
		{"one millisecond timeout", func(c *Config) { c.Timeout = time.Millisecond }, false},
		{"negative wait", func(c *Config) { c.WaitReady = -time.Second }, true},
		{"empty password", func(c *Config) { c.Password = "" }, true},
		{"empty output", func(c *Config) { c.Output = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeSubMillisecondTimeoutRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(Options{Timeout: 500 * time.Microsecond})
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() accepted timeout %s (%dms)", cfg.Timeout, cfg.Timeout.Milliseconds())
	}
}

func TestPrintMasksPassword(t *testing.T) {
	var buf bytes.Buffer
	DefaultConfig().Print(&buf)
	out := buf.String()
	if strings.Contains(out, "AbCd123EfGh") {
		t.Fatalf("password printed in clear:\n%s", out)
	}
	if !strings.Contains(out, " -password: ***********") || !strings.Contains(out, " -base_url: http://couchbase:8091") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

// chdirT mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirT(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
