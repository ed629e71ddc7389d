package session

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(3)
	if _, ok := r.Last(); ok {
		t.Error("empty recorder should have no last status")
	}

	for i := 0; i < 5; i++ {
		r.Report(Status{Message: fmt.Sprintf("m%d", i), Severity: SeverityInfo})
	}

	h := r.History()
	if len(h) != 3 {
		t.Fatalf("history length: got %d, want 3", len(h))
	}
	for i, want := range []string{"m2", "m3", "m4"} {
		if h[i].Message != want {
			t.Errorf("history[%d]: got %q, want %q", i, h[i].Message, want)
		}
	}
	if last, _ := r.Last(); last.Message != "m4" {
		t.Errorf("Last: got %q", last.Message)
	}

	h[0].Message = "changed"
	if r.History()[0].Message != "m2" {
		t.Error("History should return a copy")
	}

	if got := len(NewRecorder(0).History()); got != 0 {
		t.Errorf("fresh recorder history: got %d", got)
	}
}

func TestLogSink(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := NewLogSink(logrus.NewEntry(logger))

	sink.Report(Status{Message: "Scanning for markers...", Severity: SeverityInfo})
	sink.Report(Status{Message: "Scanning for markers...", Severity: SeverityInfo})
	sink.Report(Status{Message: "Detected 2 marker(s)", Severity: SeveritySuccess})
	sink.Report(Status{Message: "Frame source error: eof", Severity: SeverityError})
	sink.Report(Status{Message: "Scanning for markers...", Severity: SeverityInfo})

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("entries: got %d, want 4", len(entries))
	}

	tests := []struct {
		msg      string
		level    logrus.Level
		severity string
	}{
		{"Scanning for markers...", logrus.InfoLevel, "info"},
		{"Detected 2 marker(s)", logrus.InfoLevel, "success"},
		{"Frame source error: eof", logrus.WarnLevel, "error"},
		{"Scanning for markers...", logrus.InfoLevel, "info"},
	}
	for i, tt := range tests {
		e := entries[i]
		if e.Message != tt.msg || e.Level != tt.level {
			t.Errorf("entry %d: got %q at %v, want %q at %v", i, e.Message, e.Level, tt.msg, tt.level)
		}
		if e.Data["severity"] != tt.severity {
			t.Errorf("entry %d severity field: got %v", i, e.Data["severity"])
		}
	}
}

func TestMultiSink(t *testing.T) {
	a, b := NewRecorder(5), NewRecorder(5)
	sink := MultiSink{a, nil, b}

	sink.Report(Status{Message: "Camera started", Severity: SeveritySuccess})

	for name, r := range map[string]*Recorder{"a": a, "b": b} {
		if last, ok := r.Last(); !ok || last.Message != "Camera started" {
			t.Errorf("recorder %s: got %+v", name, last)
		}
	}
}
