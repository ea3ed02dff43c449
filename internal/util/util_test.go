package util_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/blackwell-systems/mediadesk/internal/util"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, c := range cases {
		if got := util.FormatBytes(c.in); got != c.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDimensions(t *testing.T) {
	if got := util.Dimensions(640, 480); got != "640×480" {
		t.Errorf("Dimensions(640, 480) = %q", got)
	}
	if got := util.Dimensions(0, 480); got != "" {
		t.Errorf("Dimensions(0, 480) = %q, want empty", got)
	}
}

func TestParseIDs(t *testing.T) {
	got, err := util.ParseIDs([]string{"5", "7,9", " 11 ,"})
	if err != nil {
		t.Fatalf("ParseIDs: %v", err)
	}
	want := []int{5, 7, 9, 11}
	if len(got) != len(want) {
		t.Fatalf("ParseIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseIDs = %v, want %v", got, want)
		}
	}
}

func TestParseIDs_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "0", "-3", "4,x"} {
		if _, err := util.ParseIDs([]string{in}); err == nil {
			t.Errorf("ParseIDs(%q) = nil error", in)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"chatty", slog.LevelWarn},
	}
	for _, c := range cases {
		if got := util.ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := util.NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "id", 5)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=5") {
		t.Errorf("log output = %q", out)
	}
}
