package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/pixelpane/internal/appstate"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRoot().command()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeImage(t *testing.T, dir string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	path := filepath.Join(dir, "image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const cellFeatures = `{"sets":[{"name":"cells","features":[
	{"left":-2,"bottom":-2,"width":4,"height":4,"color":"#0000FF","label":"cell"}
]}]}`

func TestRenderWritesView(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, 10, 10, color.RGBA{R: 255, A: 255})
	feats := writeFile(t, filepath.Join(dir, "cells.json"), cellFeatures)
	out := filepath.Join(dir, "view.png")

	stdout, err := run(t, "render", img, "-f", feats, "--size", "20x20", "--renderer", "raster", "-o", out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(stdout) != out {
		t.Fatalf("stdout = %q", stdout)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if r, g, b, _ := got.At(10, 10).RGBA(); r != 0 || g != 0 || b != 0xffff {
		t.Fatalf("feature pixel = %v", got.At(10, 10))
	}
	if r, _, _, _ := got.At(6, 6).RGBA(); r != 0xffff {
		t.Fatalf("image pixel = %v", got.At(6, 6))
	}
}

func TestRenderRequiresOutput(t *testing.T) {
	img := writeImage(t, t.TempDir(), 4, 4, color.RGBA{A: 255})
	if _, err := run(t, "render", img); err == nil || !strings.Contains(err.Error(), "output file is required") {
		t.Fatalf("err = %v", err)
	}
	if _, err := run(t, "render", img, "-o", "x.png", "--size", "0x3"); err == nil {
		t.Fatalf("expected error for bad size")
	}
}

func TestPick(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir, 10, 10, color.RGBA{A: 255})
	feats := writeFile(t, filepath.Join(dir, "cells.json"), cellFeatures)

	out, err := run(t, "pick", img, "10", "10", "-f", feats, "--size", "20x20", "--renderer", "raster")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if out != "cells\tcell\t-2\t-2\t4\t4\n" {
		t.Fatalf("out = %q", out)
	}

	out, err = run(t, "pick", img, "1", "1", "-f", feats, "--size", "20x20", "--renderer", "raster")
	if err != nil || out != "" {
		t.Fatalf("miss = %q, %v", out, err)
	}

	out, err = run(t, "pick", img, "13", "10", "-f", feats, "--size", "20x20", "--zoom", "2", "--format", "json")
	if err != nil {
		t.Fatalf("pick json: %v", err)
	}
	if !strings.Contains(out, `"label": "cell"`) {
		t.Fatalf("json = %s", out)
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	rc := writeFile(t, filepath.Join(dir, "test.rc"), "renderer = raster\n[zoom]\nmax = 4\nmin = 0.5\n")
	t.Setenv("PIXELPANE_ZOOM_MAX", "6")

	out, err := run(t, "--config", rc, "config", "print")
	if err != nil {
		t.Fatalf("config print: %v", err)
	}
	for _, want := range []string{"renderer = raster", "min = 0.5", "max = 6"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--config", rc, "--renderer", "gg", "config", "keys")
	if err != nil {
		t.Fatalf("config keys: %v", err)
	}
	if !strings.Contains(out, "renderer = gg\n") || !strings.Contains(out, "zoom.max = 6\n") {
		t.Fatalf("keys:\n%s", out)
	}

	t.Setenv("PIXELPANE_ZOOM_MAX", "0.1")
	if _, err := run(t, "--config", rc, "config", "print"); err == nil {
		t.Fatalf("expected error for empty zoom range")
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "pixelpane.rc")
	if _, err := run(t, "--config", path, "--save-dir", "/tmp/views", "config", "save"); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "save_dir = /tmp/views") {
		t.Fatalf("saved:\n%s", data)
	}
}

func TestViewImageSources(t *testing.T) {
	original := readClipboardImage
	sentinel := errors.New("no display")
	readClipboardImage = func() (image.Image, error) { return nil, sentinel }
	t.Cleanup(func() { readClipboardImage = original })

	ran := 0
	originalRun := runApp
	runApp = func(*appstate.AppState) { ran++ }
	t.Cleanup(func() { runApp = originalRun })

	if _, err := run(t, "view"); err == nil {
		t.Fatalf("expected error without image")
	}
	if _, err := run(t, "view", "--from-clipboard"); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped clipboard error, got %v", err)
	}
	if _, err := run(t, "view", "a.png", "--from-clipboard"); err == nil {
		t.Fatalf("expected error for path with --from-clipboard")
	}
	img := writeImage(t, t.TempDir(), 4, 4, color.RGBA{A: 255})
	if _, err := run(t, "view", img); err != nil || ran != 1 {
		t.Fatalf("view: ran=%d err=%v", ran, err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || out != "pixelpane version dev\n" {
		t.Fatalf("version = %q, %v", out, err)
	}
	out, err = run(t, "version", "--format", "json")
	if err != nil || !strings.Contains(out, `"version": "dev"`) {
		t.Fatalf("json = %q, %v", out, err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := run(t, "--log-level", "loud", "version"); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}
