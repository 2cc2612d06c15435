package runner

import (
	"errors"
	"fmt"
	"log/slog"

	"wizardshot/internal/config"
	"wizardshot/internal/wizard"

	"github.com/playwright-community/playwright-go"
)

// Session is an open browser with one page ready for the wizard.
type Session interface {
	Page() wizard.Page
	Close() error
}

// Launcher starts a Session for cfg.
type Launcher func(cfg *config.Config, logger *slog.Logger) (Session, error)

type pwSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func (s *pwSession) Page() wizard.Page { return s.page }

func (s *pwSession) Close() error {
	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PlaywrightLauncher installs (optionally) and starts the Playwright driver,
// then opens the configured browser with a single page.
func PlaywrightLauncher(cfg *config.Config, logger *slog.Logger) (Session, error) {
	if cfg.Install {
		logger.Info("installing playwright browsers", "scope", "runner", "browser", cfg.Browser)
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{cfg.Browser}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	sess := &pwSession{pw: pw}

	bt, err := browserType(pw, cfg.Browser)
	if err != nil {
		_ = sess.Close()
		return nil, err
	}

	sess.browser, err = bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     chromiumArgs(cfg.Browser),
	})
	if err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("launch %s: %w", cfg.Browser, err)
	}

	sess.page, err = sess.browser.NewPage()
	if err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	sess.page.SetDefaultTimeout(float64(cfg.Timeout.Milliseconds()))
	sess.page.SetDefaultNavigationTimeout(float64(cfg.Timeout.Milliseconds()))

	logger.Info("browser ready", "scope", "browser", "browser", cfg.Browser, "headless", cfg.Headless)
	return sess, nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unknown browser %q", name)
}

func chromiumArgs(name string) []string {
	if name != "chromium" {
		return nil
	}
	return []string{"--disable-dev-shm-usage"}
}
