package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a-very-long-record-name.example.com", 10, "a-very-lo…"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestHeader_ContainsBreadcrumbAndProvider(t *testing.T) {
	out := ansi.Strip(Header(60, "scan > example.com", "Cloudflare"))
	for _, want := range []string{"dnsweeper", "scan > example.com", "Cloudflare"} {
		if !strings.Contains(out, want) {
			t.Errorf("header %q missing %q", out, want)
		}
	}
	if Header(5, "x", "y") != "" {
		t.Error("expected empty header for tiny width")
	}
}

func TestFooter(t *testing.T) {
	out := ansi.Strip(Footer(60, []KeyBinding{{Key: "q", Desc: "quit"}, {Key: "f", Desc: "filter"}}))
	if !strings.Contains(out, "q quit") || !strings.Contains(out, "f filter") {
		t.Errorf("footer %q missing bindings", out)
	}
	if Footer(60, nil) != "" {
		t.Error("expected empty footer without bindings")
	}

	narrow := ansi.Strip(Footer(16, []KeyBinding{{Key: "q", Desc: "quit"}, {Key: "enter", Desc: "details"}}))
	if !strings.Contains(narrow, "q quit") || strings.Contains(narrow, "details") {
		t.Errorf("narrow footer %q should keep only the bindings that fit", narrow)
	}
}

func TestStatusBar(t *testing.T) {
	if StatusBar(40, "", false) != "" {
		t.Error("expected empty status bar for empty message")
	}
	if out := ansi.Strip(StatusBar(40, "12 record(s)", false)); !strings.Contains(out, "12 record(s)") {
		t.Errorf("status bar %q missing message", out)
	}
}
