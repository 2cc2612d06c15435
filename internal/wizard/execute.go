package wizard

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// Page is the part of playwright.Page the wizard walk needs.
type Page interface {
	SetViewportSize(width, height int) error
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error)
	Click(selector string, options ...playwright.PageClickOptions) error
	Fill(selector, value string, options ...playwright.PageFillOptions) error
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
	ExpectNavigation(cb func() error, options ...playwright.PageExpectNavigationOptions) (playwright.Response, error)
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// Hooks observe progress. Nil fields are skipped.
type Hooks struct {
	StepStart func(index int, step Step)
	Action    func(step Step, action Action)
	StepDone  func(index int, step Step, shot Shot)
}

// Capture controls where and how screenshots are written.
type Capture struct {
	Dir     string
	Quality int
	Hooks   Hooks
}

// Shot describes a written screenshot.
type Shot struct {
	Step   string
	File   string
	Path   string
	Width  int
	Height int
	Bytes  int
}

// StepError reports which step and action failed.
type StepError struct {
	Step   string
	Action string
	Err    error
}

func (e *StepError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("step %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %s: %s: %v", e.Step, e.Action, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Execute walks plan in order and stops at the first failure.
func Execute(ctx context.Context, page Page, plan Plan, c Capture) ([]Shot, error) {
	shots := make([]Shot, 0, len(plan))
	for i, step := range plan {
		if err := ctx.Err(); err != nil {
			return shots, &StepError{Step: step.Name, Err: err}
		}
		if c.Hooks.StepStart != nil {
			c.Hooks.StepStart(i, step)
		}

		shot, err := runStep(page, step, c)
		if err != nil {
			return shots, err
		}
		shots = append(shots, shot)

		if c.Hooks.StepDone != nil {
			c.Hooks.StepDone(i, step, shot)
		}
	}
	return shots, nil
}

func runStep(page Page, step Step, c Capture) (Shot, error) {
	if step.Enter != nil {
		if err := apply(page, step, *step.Enter, c.Hooks); err != nil {
			return Shot{}, err
		}
	}

	if err := page.SetViewportSize(step.Viewport.Width, step.Viewport.Height); err != nil {
		return Shot{}, &StepError{Step: step.Name, Action: "viewport", Err: err}
	}

	for _, a := range step.Actions {
		if err := apply(page, step, a, c.Hooks); err != nil {
			return Shot{}, err
		}
	}

	path := filepath.Join(c.Dir, step.File)
	buf, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:    playwright.String(path),
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(c.Quality),
		Clip:    step.Clip,
	})
	if err != nil {
		return Shot{}, &StepError{Step: step.Name, Action: "screenshot", Err: err}
	}

	w, h := step.ExpectedSize()
	return Shot{
		Step:   step.Name,
		File:   step.File,
		Path:   path,
		Width:  w,
		Height: h,
		Bytes:  len(buf),
	}, nil
}

func apply(page Page, step Step, a Action, hooks Hooks) error {
	if hooks.Action != nil {
		hooks.Action(step, a)
	}

	var err error
	switch a.Kind {
	case KindGoto:
		_, err = page.Goto(a.Selector)
	case KindWait:
		var opts []playwright.PageWaitForSelectorOptions
		if a.Visible {
			opts = append(opts, playwright.PageWaitForSelectorOptions{
				State: playwright.WaitForSelectorStateVisible,
			})
		}
		_, err = page.WaitForSelector(a.Selector, opts...)
	case KindClick:
		err = page.Click(a.Selector)
	case KindFill:
		err = page.Fill(a.Selector, a.Value)
	case KindEval:
		_, err = page.Evaluate(a.Selector)
	case KindClickNav:
		_, err = page.ExpectNavigation(func() error {
			return page.Click(a.Selector)
		})
	default:
		err = fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if err != nil {
		return &StepError{Step: step.Name, Action: a.String(), Err: err}
	}
	return nil
}
