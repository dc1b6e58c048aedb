package klog

import "testing"

type memSink struct {
	lines []string
}

func (s *memSink) WriteLineString(line string) { s.lines = append(s.lines, line) }

func TestLevelFilter(t *testing.T) {
	s := &memSink{}
	SetSink(s)
	defer SetSink(nil)
	SetLevel(LvlWarn)

	Errorf("e")
	Warnf("w")
	Infof("i")
	Debugf("d")

	if len(s.lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(s.lines))
	}
	if s.lines[0] != "ERROR: e" || s.lines[1] != "WARN: w" {
		t.Fatalf("lines = %q", s.lines)
	}
}

func TestTee(t *testing.T) {
	a := &memSink{}
	b := &memSink{}
	SetSink(Tee(a, b))
	defer SetSink(nil)
	SetLevel(LvlInfo)

	Infof("x %d", 7)

	if len(a.lines) != 1 || len(b.lines) != 1 {
		t.Fatalf("tee delivered %d/%d lines, want 1/1", len(a.lines), len(b.lines))
	}
	if a.lines[0] != "INFO: x 7" {
		t.Fatalf("line = %q, want %q", a.lines[0], "INFO: x 7")
	}
}
