package wizard

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Kind names what an Action does to the page.
type Kind string

const (
	KindGoto     Kind = "goto"
	KindWait     Kind = "wait"
	KindClick    Kind = "click"
	KindFill     Kind = "fill"
	KindEval     Kind = "eval"
	KindClickNav Kind = "click-nav"
)

// Action is a single page interaction. Selector holds the URL for goto and
// the expression for eval.
type Action struct {
	Kind     Kind
	Selector string
	Value    string
	Visible  bool
}

func (a Action) String() string {
	switch a.Kind {
	case KindFill:
		return fmt.Sprintf("%s %s", a.Kind, a.Selector)
	case KindWait:
		if a.Visible {
			return fmt.Sprintf("%s %s (visible)", a.Kind, a.Selector)
		}
	case KindEval:
		return string(a.Kind)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Selector)
}

// Step runs Enter against the previous page, sets Viewport, runs Actions in
// order and screenshots to File.
type Step struct {
	Name     string
	File     string
	Enter    *Action
	Viewport playwright.Size
	Actions  []Action
	Clip     *playwright.Rect
}

// ExpectedSize is the pixel size of the image the step produces.
func (s Step) ExpectedSize() (int, int) {
	if s.Clip != nil {
		return int(s.Clip.Width), int(s.Clip.Height)
	}
	return s.Viewport.Width, s.Viewport.Height
}

type Plan []Step

// Files lists output file names in capture order.
func (p Plan) Files() []string {
	files := make([]string, len(p))
	for i, s := range p {
		files[i] = s.File
	}
	return files
}

type Credentials struct {
	ClusterName string
	Password    string
}

func goTo(url string) Action { return Action{Kind: KindGoto, Selector: url} }
func waitFor(sel string) Action { return Action{Kind: KindWait, Selector: sel} }
func waitVisible(sel string) Action { return Action{Kind: KindWait, Selector: sel, Visible: true} }
func click(sel string) Action { return Action{Kind: KindClick, Selector: sel} }
func clickNav(sel string) Action { return Action{Kind: KindClickNav, Selector: sel} }
func fill(sel, value string) Action { return Action{Kind: KindFill, Selector: sel, Value: value} }
func eval(expr string) Action { return Action{Kind: KindEval, Selector: expr} }
func enter(a Action) *Action { return &a }
func clip(w, h float64) *playwright.Rect {
	return &playwright.Rect{X: 0, Y: 20, Width: w, Height: h}
}

// NewPlan returns the setup wizard walk for a fresh server at baseURL.
func NewPlan(baseURL string, creds Credentials) Plan {
	small := playwright.Size{Width: 640, Height: 480}
	tall := playwright.Size{Width: 640, Height: 800}
	wide := playwright.Size{Width: 1100, Height: 400}

	return Plan{
		{
			Name:     "setup-initial",
			File:     "setup-initial.jpg",
			Viewport: small,
			Actions: []Action{
				goTo(baseURL + "/ui/index.html"),
				waitFor("button"),
			},
			Clip: clip(640, 400),
		},
		{
			Name:     "cluster-creation",
			File:     "cluster-creation.jpg",
			Enter:    enter(click("text=Setup New Cluster")),
			Viewport: small,
			Actions: []Action{
				waitFor("button"),
				fill("#for-cluster-name-field", creds.ClusterName),
				click("#secure-password"),
				fill("#secure-password", creds.Password),
				click("#secure-password-verify"),
				fill("#secure-password-verify", creds.Password),
			},
			Clip: clip(640, 380),
		},
		{
			Name:     "finish-wizard",
			File:     "finish-wizard.jpg",
			Enter:    enter(click("text=Next: Accept Terms")),
			Viewport: tall,
			Actions: []Action{
				waitVisible(`css=[for="for-accept-terms"]`),
				// the label swallows page.click, so check the box from script
				eval(`() => document.getElementById('for-accept-terms').click()`),
			},
			Clip: clip(640, 600),
		},
		{
			Name:     "ui-home",
			File:     "ui-home.jpg",
			Enter:    enter(clickNav("text=Finish With Defaults")),
			Viewport: wide,
		},
		{
			Name:     "load-sample-data",
			File:     "load-sample-data.jpg",
			Enter:    enter(clickNav("text=Sample buckets")),
			Viewport: wide,
			Actions: []Action{
				click(`css=[for="bucketbeer-sample"]`),
			},
		},
		{
			Name:     "sample-buckets",
			File:     "sample-buckets.jpg",
			// loading starts a background task on the same page
			Enter:    enter(click("text=Load Sample Data")),
			Viewport: wide,
			Actions: []Action{
				waitVisible("text=Installed Samples"),
			},
		},
	}
}
