package ui

import (
	"bytes"
	"testing"
)

func TestLoggerDebugGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(false).WithOutput(&buf)

	l.Debugf("hidden %d\n", 1)
	l.Infof("shown %d\n", 2)
	l.Errorf("failed %s\n", "x")

	want := "[INFO] shown 2\n[ERROR] failed x\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	l.Debug = true
	l.Debugf("visible\n")
	if buf.String() != "[DEBUG] visible\n" {
		t.Fatalf("debug output = %q", buf.String())
	}
}

func TestProgressCompletes(t *testing.T) {
	var buf bytes.Buffer
	pr := NewProgress(&buf, 2)
	pr.Step("one")
	pr.Advance()
	pr.Step("two")
	pr.Advance()
	pr.Close()
	pr.Close()
}

func TestProgressAbort(t *testing.T) {
	var buf bytes.Buffer
	pr := NewProgress(&buf, 3)
	pr.Advance()
	pr.Close()
}
