package theme

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}},
		{"#00ff0080", color.RGBA{0, 255, 0, 128}},
		{"#abc", color.RGBA{0xAA, 0xBB, 0xCC, 255}},
		{" #010203 ", color.RGBA{1, 2, 3, 255}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"FF0000", "#12345", "#GGGGGG", ""} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) accepted", bad)
		}
	}
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\n# comment\nHighlight: #00FF00\nUnknown: #000000\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" || th.Highlight != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("parsed %+v", th)
	}
	if th.Background != Default().Background {
		t.Fatalf("default background lost")
	}
	if _, err := Parse(strings.NewReader("Highlight: red\n")); err == nil {
		t.Fatalf("bad color accepted")
	}
}

func TestFormatParses(t *testing.T) {
	var buf bytes.Buffer
	if err := Format(&buf, Default()); err != nil {
		t.Fatalf("Format: %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *got != *Default() {
		t.Fatalf("formatted theme changed: %+v", got)
	}
}

func TestLoaderSources(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.theme"), []byte("Name: Custom\nHUDText: #123456\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}

	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Fatalf("Load(\"\") = %v, %v", th, err)
	}
	if th, err := l.Load("dark"); err != nil || th.Name != "Dark" {
		t.Fatalf("Load(dark) = %v, %v", th, err)
	}
	if th, err := l.Load("custom"); err != nil || th.HUDText != (color.RGBA{0x12, 0x34, 0x56, 255}) {
		t.Fatalf("Load(custom) = %v, %v", th, err)
	}
	if th, err := l.Load(filepath.Join(dir, "custom.theme")); err != nil || th.Name != "Custom" {
		t.Fatalf("Load(path) = %v, %v", th, err)
	}
	if _, err := l.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	names := l.Names()
	want := []string{"custom", "dark", "default"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("Names = %v", names)
	}
}
