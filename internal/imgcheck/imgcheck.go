// Package imgcheck verifies that captured images exist and have the
// dimensions the documentation expects.
package imgcheck

import (
	"errors"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
)

var ErrVerify = errors.New("image verification failed")

// Expectation is one file and its required pixel size.
type Expectation struct {
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Problem is a single failed expectation.
type Problem struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type Report struct {
	Dir      string    `json:"dir"`
	Checked  int       `json:"checked"`
	Problems []Problem `json:"problems,omitempty"`
}

func (r Report) OK() bool { return len(r.Problems) == 0 }

// Err returns nil for a clean report, otherwise an error wrapping ErrVerify.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	parts := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		parts[i] = p.File + ": " + p.Reason
	}
	return fmt.Errorf("%w: %s", ErrVerify, strings.Join(parts, "; "))
}

func Verify(dir string, want []Expectation) Report {
	rep := Report{Dir: dir}
	for _, e := range want {
		rep.Checked++
		if reason := check(filepath.Join(dir, e.File), e); reason != "" {
			rep.Problems = append(rep.Problems, Problem{File: e.File, Reason: reason})
		}
	}
	return rep
}

func check(path string, e Expectation) string {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "missing"
	}
	if err != nil {
		return err.Error()
	}
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return "not a jpeg: " + err.Error()
	}
	if cfg.Width != e.Width || cfg.Height != e.Height {
		return fmt.Sprintf("size %dx%d, want %dx%d", cfg.Width, cfg.Height, e.Width, e.Height)
	}
	return ""
}
