package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn", "dataset", "iso3780-2022")
	l.Error("shown error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains messages below level: %q", out)
	}
	if !strings.Contains(out, "shown warn") || !strings.Contains(out, "dataset=iso3780-2022") {
		t.Errorf("warn entry missing: %q", out)
	}
	if !strings.Contains(out, "shown error") {
		t.Errorf("error entry missing: %q", out)
	}
	if !strings.Contains(out, prefix) {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestLogger_None(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelNone)

	l.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("LevelNone wrote %q", buf.String())
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)
	l.SetLevel(LevelDebug)

	if l.Level() != LevelDebug {
		t.Errorf("Level() = %v; want debug", l.Level())
	}
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug entry missing after SetLevel: %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo).With("component", "tables")

	l.Info("loaded")
	if !strings.Contains(buf.String(), "component=tables") {
		t.Errorf("With fields missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{" warning ", LevelWarn, true},
		{"error", LevelError, true},
		{"off", LevelNone, true},
		{"loud", LevelWarn, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLevel_String(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelNone} {
		parsed, ok := ParseLevel(l.String())
		if !ok || parsed != l {
			t.Errorf("ParseLevel(%q) = %v; want %v", l.String(), parsed, l)
		}
	}
}

func TestSetDefault_Concurrent(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	var buf bytes.Buffer
	replacement := New(&buf, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if Default() == nil {
				t.Error("Default() returned nil")
			}
		}()
		go func() {
			defer wg.Done()
			SetDefault(replacement)
		}()
	}
	wg.Wait()

	if Default() != replacement {
		t.Fatal("Default() did not return the logger passed to SetDefault")
	}
	Info("routed", "to", "replacement")
	if !strings.Contains(buf.String(), "routed") {
		t.Errorf("package-level Info did not reach the default logger: %q", buf.String())
	}

	SetDefault(nil)
	if Default() == nil {
		t.Error("Default() after SetDefault(nil) = nil; want stderr logger")
	}
}
