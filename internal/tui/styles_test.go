package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/naveenspark/saasdash/pkg/domain"
)

func TestStatusStyleRendersText(t *testing.T) {
	for _, status := range []string{domain.SessionActive, domain.SessionExpired, "pending", ""} {
		t.Run(status, func(t *testing.T) {
			if got := statusStyle(status).Render(status); !strings.Contains(got, status) {
				t.Errorf("statusStyle(%q).Render = %q, want to contain the status", status, got)
			}
		})
	}
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		hex     string
		r, g, b int
	}{
		{"#FF8000", 255, 128, 0},
		{"00ff7f", 0, 255, 127},
		{"#abc", 128, 128, 128},
		{"", 128, 128, 128},
	}
	for _, tc := range tests {
		r, g, b := hexToRGB(tc.hex)
		if r != tc.r || g != tc.g || b != tc.b {
			t.Errorf("hexToRGB(%q) = %d,%d,%d, want %d,%d,%d", tc.hex, r, g, b, tc.r, tc.g, tc.b)
		}
	}
}

func TestClampByte(t *testing.T) {
	if clampByte(-4) != 0 || clampByte(300) != 255 || clampByte(42.9) != 42 {
		t.Error("clampByte out of range")
	}
}

func TestShimmerLogoContainsLetters(t *testing.T) {
	grad := newLogoGradient()
	for _, frame := range []int{0, 17, 400} {
		logo := renderShimmerLogo(frame, grad)
		for _, ch := range "SAASDH" {
			if !strings.ContainsRune(logo, ch) {
				t.Errorf("frame %d: logo missing %q", frame, ch)
			}
		}
	}
}

func TestHelpLine(t *testing.T) {
	got := helpLine("r", "reload", "q", "quit", "dangling")
	for _, want := range []string{"r", "reload", "q", "quit"} {
		if !strings.Contains(got, want) {
			t.Errorf("helpLine missing %q", want)
		}
	}
	if strings.Contains(got, "dangling") {
		t.Error("helpLine should ignore an unpaired key")
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"héllo wörld", 4, "hél…"},
		{"abc", 0, ""},
	}
	for _, tc := range tests {
		if got := truncStr(tc.in, tc.max); got != tc.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight(_, 2) = %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("truncateToHeight(_, 0) = %q, want input unchanged", got)
	}
}

func TestFormatDates(t *testing.T) {
	if formatDate(time.Time{}) != "-" || formatDateTime(time.Time{}) != "-" {
		t.Error("zero time should render as -")
	}
	ts := time.Date(2024, 3, 1, 9, 5, 0, 0, time.Local)
	if got := formatDate(ts); got != "2024-03-01" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatDateTime(ts); got != "2024-03-01 09:05" {
		t.Errorf("formatDateTime = %q", got)
	}
}

func TestCenterLine(t *testing.T) {
	if got := centerLine("ab", 6); got != "  ab" {
		t.Errorf("centerLine = %q, want %q", got, "  ab")
	}
	if got := centerLine("abcdef", 2); got != "abcdef" {
		t.Errorf("centerLine on narrow width = %q", got)
	}
}
