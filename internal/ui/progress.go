package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress shows one bar that advances per captured step.
type Progress struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	start time.Time

	current atomic.Value
	done    atomic.Bool
}

func NewProgress(out io.Writer, total int) *Progress {
	pr := &Progress{
		p: mpb.New(
			mpb.WithWidth(40),
			mpb.WithOutput(out),
			mpb.WithRefreshRate(120*time.Millisecond),
		),
		start: time.Now(),
	}
	pr.current.Store("starting")

	pr.bar = pr.p.New(
		int64(total),
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name("capture  "),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit(" %d/%d steps", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + pr.current.Load().(string)
			}),
			decor.Any(func(_ decor.Statistics) string {
				return fmt.Sprintf(" | %ds", int(time.Since(pr.start).Seconds()))
			}),
		),
	)
	return pr
}

// Step names the step now running.
func (pr *Progress) Step(name string) {
	pr.current.Store(name)
}

// Advance marks one more step as captured.
func (pr *Progress) Advance() {
	pr.bar.Increment()
}

// Close finishes the bar. If the run aborted, the bar is dropped at its
// current position.
func (pr *Progress) Close() {
	if pr.done.Swap(true) {
		return
	}
	if !pr.bar.Completed() {
		pr.bar.Abort(false)
	}
	pr.p.Wait()
}
