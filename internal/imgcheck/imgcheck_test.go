package imgcheck

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatal(err)
	}
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "ok.jpg"), 640, 400)
	writeJPEG(t, filepath.Join(dir, "small.jpg"), 320, 200)
	if err := os.WriteFile(filepath.Join(dir, "text.jpg"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep := Verify(dir, []Expectation{
		{File: "ok.jpg", Width: 640, Height: 400},
		{File: "small.jpg", Width: 640, Height: 400},
		{File: "text.jpg", Width: 640, Height: 400},
		{File: "gone.jpg", Width: 640, Height: 400},
	})

	if rep.Checked != 4 {
		t.Fatalf("Checked = %d, want 4", rep.Checked)
	}
	if rep.OK() {
		t.Fatal("expected problems")
	}

	got := map[string]string{}
	for _, p := range rep.Problems {
		got[p.File] = p.Reason
	}
	if _, bad := got["ok.jpg"]; bad {
		t.Fatalf("ok.jpg flagged: %s", got["ok.jpg"])
	}
	if got["small.jpg"] != "size 320x200, want 640x400" {
		t.Fatalf("small.jpg reason = %q", got["small.jpg"])
	}
	if !strings.HasPrefix(got["text.jpg"], "not a jpeg") {
		t.Fatalf("text.jpg reason = %q", got["text.jpg"])
	}
	if got["gone.jpg"] != "missing" {
		t.Fatalf("gone.jpg reason = %q", got["gone.jpg"])
	}

	err := rep.Err()
	if !errors.Is(err, ErrVerify) {
		t.Fatalf("Err() = %v, want ErrVerify", err)
	}
}

func TestVerifyClean(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "ui-home.jpg"), 1100, 400)

	rep := Verify(dir, []Expectation{{File: "ui-home.jpg", Width: 1100, Height: 400}})
	if !rep.OK() || rep.Err() != nil {
		t.Fatalf("unexpected problems: %+v", rep.Problems)
	}
}
