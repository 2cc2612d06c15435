package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing file there
// is not an error.
const DefaultPath = "wizardshot.yaml"

type Config struct {
	BaseURL     string        `yaml:"base_url"`
	Output      string        `yaml:"output"`
	ClusterName string        `yaml:"cluster_name"`
	Password    string        `yaml:"password"`
	Quality     int           `yaml:"quality"`
	Headless    bool          `yaml:"headless"`
	Browser     string        `yaml:"browser"`
	Install     bool          `yaml:"install"`
	Timeout     time.Duration `yaml:"timeout"`
	WaitReady   time.Duration `yaml:"wait_ready"`
	Debug       bool          `yaml:"debug"`
}

// Options carries CLI overrides. Zero values leave the file value alone.
type Options struct {
	BaseURL     string
	Output      string
	ClusterName string
	Password    string
	Quality     int
	Browser     string
	Headful     bool
	NoInstall   bool
	Timeout     time.Duration
	WaitReady   time.Duration
	Debug       bool
}

var browsers = map[string]bool{
	"chromium": true,
	"firefox":  true,
	"webkit":   true,
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://couchbase:8091",
		Output:      "/output",
		ClusterName: "cb-cluster",
		Password:    "AbCd123EfGh",
		Quality:     85,
		Headless:    true,
		Browser:     "chromium",
		Install:     true,
		Timeout:     30 * time.Second,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads path on top of the defaults. An empty path means DefaultPath,
// which may be absent.
func Load(path string) (*Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, path, nil
}

func (c *Config) Merge(o Options) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.ClusterName != "" {
		c.ClusterName = o.ClusterName
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	if o.Quality != 0 {
		c.Quality = o.Quality
	}
	if o.Browser != "" {
		c.Browser = strings.ToLower(o.Browser)
	}
	if o.Headful {
		c.Headless = false
	}
	if o.NoInstall {
		c.Install = false
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.WaitReady != 0 {
		c.WaitReady = o.WaitReady
	}
	if o.Debug {
		c.Debug = true
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("base_url: missing host")
	}
	if c.Output == "" {
		return errors.New("output is required")
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be within 1..100, got %d", c.Quality)
	}
	if !browsers[c.Browser] {
		return fmt.Errorf("unknown browser %q", c.Browser)
	}
	// playwright takes whole milliseconds; 0 disables its timeout
	if c.Timeout < time.Millisecond {
		return fmt.Errorf("timeout must be at least 1ms, got %s", c.Timeout)
	}
	if c.WaitReady < 0 {
		return errors.New("wait_ready must not be negative")
	}
	if c.ClusterName == "" {
		return errors.New("cluster_name is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -base_url: %s\n", c.BaseURL)
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -cluster_name: %s\n", c.ClusterName)
	fmt.Fprintf(w, " -password: %s\n", strings.Repeat("*", len(c.Password)))
	fmt.Fprintf(w, " -quality: %d\n", c.Quality)
	fmt.Fprintf(w, " -browser: %s\n", c.Browser)
	if !c.Headless {
		fmt.Fprintf(w, " -headless: %t\n", c.Headless)
	}
	if !c.Install {
		fmt.Fprintf(w, " -install: %t\n", c.Install)
	}
	fmt.Fprintf(w, " -timeout: %s\n", c.Timeout)
	if c.WaitReady > 0 {
		fmt.Fprintf(w, " -wait_ready: %s\n", c.WaitReady)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
}
