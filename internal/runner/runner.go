package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"wizardshot/internal/config"
	"wizardshot/internal/imgcheck"
	"wizardshot/internal/wizard"

	"github.com/google/uuid"
)

const (
	ManifestFile = "run.json"
	LogFile      = "runner.ndjson"
	LogsDir      = "logs"
)

// Options configure a run.
type Options struct {
	Config *config.Config
	Hooks  wizard.Hooks
	// Launch opens the browser session; defaults to Playwright.
	Launch Launcher
}

// Result contains artifact paths and manifest.
type Result struct {
	RunID    string
	Dir      string
	Manifest Manifest
	LogPath  string
	Report   imgcheck.Report
}

// ShotEntry records one written image.
type ShotEntry struct {
	Step   string `json:"step"`
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

// Manifest is persisted to run.json.
type Manifest struct {
	RunID      string      `json:"run_id"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	BaseURL    string      `json:"base_url"`
	Browser    string      `json:"browser"`
	Headless   bool        `json:"headless"`
	Quality    int         `json:"quality"`
	Shots      []ShotEntry `json:"shots"`
	LogPath    string      `json:"log_path"`
}

// Expectations maps a plan to the images verification must find.
func Expectations(plan wizard.Plan) []imgcheck.Expectation {
	out := make([]imgcheck.Expectation, len(plan))
	for i, s := range plan {
		w, h := s.ExpectedSize()
		out[i] = imgcheck.Expectation{File: s.File, Width: w, Height: h}
	}
	return out
}

// PlanFor builds the wizard plan from a config.
func PlanFor(cfg *config.Config) wizard.Plan {
	return wizard.NewPlan(cfg.BaseURL, wizard.Credentials{
		ClusterName: cfg.ClusterName,
		Password:    cfg.Password,
	})
}

// Run walks the setup wizard once and writes the images, run.json and the
// run log into the configured output directory.
func Run(ctx context.Context, opts Options) (Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return Result{}, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	launch := opts.Launch
	if launch == nil {
		launch = PlaywrightLauncher
	}

	runID := uuid.NewString()
	logsDir := filepath.Join(cfg.Output, LogsDir)
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	logPath := filepath.Join(logsDir, LogFile)
	logFile, err := os.Create(logPath)
	if err != nil {
		return Result{}, err
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("run_id", runID)

	plan := PlanFor(cfg)
	if err := clearPrevious(cfg.Output, plan); err != nil {
		logger.Error("clear previous run", "scope", "runner", "error", err.Error())
		return Result{}, err
	}

	if cfg.WaitReady > 0 {
		logger.Info("waiting for server", "scope", "runner", "url", cfg.BaseURL, "timeout", cfg.WaitReady.String())
		if err := WaitReady(ctx, cfg.BaseURL, cfg.WaitReady); err != nil {
			logger.Error("server not ready", "scope", "runner", "error", err.Error())
			return Result{}, err
		}
	}

	start := time.Now()
	sess, err := launch(cfg, logger)
	if err != nil {
		logger.Error("launch failed", "scope", "runner", "error", err.Error())
		return Result{}, fmt.Errorf("launch browser: %w", err)
	}

	shots, runErr := wizard.Execute(ctx, sess.Page(), plan, wizard.Capture{
		Dir:     cfg.Output,
		Quality: cfg.Quality,
		Hooks:   withLogging(opts.Hooks, logger),
	})
	if err := sess.Close(); err != nil {
		logger.Warn("close browser", "scope", "runner", "error", err.Error())
	}
	if runErr != nil {
		logger.Error("run aborted", "scope", "runner", "error", runErr.Error())
		return Result{}, runErr
	}

	manifest := Manifest{
		RunID:      runID,
		StartedAt:  start,
		FinishedAt: time.Now(),
		BaseURL:    cfg.BaseURL,
		Browser:    cfg.Browser,
		Headless:   cfg.Headless,
		Quality:    cfg.Quality,
		Shots:      make([]ShotEntry, len(shots)),
		LogPath:    filepath.Join(LogsDir, LogFile),
	}
	for i, s := range shots {
		manifest.Shots[i] = ShotEntry{Step: s.Step, File: s.File, Width: s.Width, Height: s.Height, Bytes: s.Bytes}
	}

	manifestPath := filepath.Join(cfg.Output, ManifestFile)
	if err := writeManifest(manifestPath, manifest); err != nil {
		logger.Warn("write manifest failed", "scope", "runner", "error", err.Error())
	}

	report := imgcheck.Verify(cfg.Output, Expectations(plan))
	for _, p := range report.Problems {
		logger.Error("verify", "scope", "artifact", "file", p.File, "reason", p.Reason)
	}
	logger.Info("run finished", "scope", "runner", "shots", len(shots), "elapsed", time.Since(start).String())

	res := Result{
		RunID:    runID,
		Dir:      cfg.Output,
		Manifest: manifest,
		LogPath:  logPath,
		Report:   report,
	}
	return res, report.Err()
}

// clearPrevious removes run.json and the plan's images so an aborted run
// cannot leave an older, complete run behind.
func clearPrevious(dir string, plan wizard.Plan) error {
	for _, name := range append([]string{ManifestFile}, plan.Files()...) {
		err := os.Remove(filepath.Join(dir, name))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove previous %s: %w", name, err)
		}
	}
	return nil
}

func withLogging(h wizard.Hooks, logger *slog.Logger) wizard.Hooks {
	return wizard.Hooks{
		StepStart: func(i int, s wizard.Step) {
			logger.Info("step", "scope", "wizard", "index", i, "name", s.Name,
				"viewport", fmt.Sprintf("%dx%d", s.Viewport.Width, s.Viewport.Height))
			if h.StepStart != nil {
				h.StepStart(i, s)
			}
		},
		Action: func(s wizard.Step, a wizard.Action) {
			logger.Debug("action", "scope", "browser", "step", s.Name, "action", a.String())
			if h.Action != nil {
				h.Action(s, a)
			}
		},
		StepDone: func(i int, s wizard.Step, shot wizard.Shot) {
			logger.Info("screenshot", "scope", "artifact", "step", s.Name, "path", shot.Path, "bytes", shot.Bytes)
			if h.StepDone != nil {
				h.StepDone(i, s, shot)
			}
		},
	}
}

func writeManifest(path string, manifest Manifest) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(manifest)
}

// LoadManifest reads a manifest from disk.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
