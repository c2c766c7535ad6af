// Package features reads and writes feature sets as JSON documents,
// optionally gzip or zstd compressed.
package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/theme"
)

// ErrUnsupportedFormat is returned for file names without a known
// extension.
var ErrUnsupportedFormat = errors.New("unsupported feature file format")

// Document is the on-disk layout. Coordinates are image space: origin at
// the image centre, y up.
type Document struct {
	Sets []Set `json:"sets"`
}

// Set is one named feature set.
type Set struct {
	Name     string    `json:"name"`
	Features []Feature `json:"features"`
}

// Feature is one rectangle. Color is #RRGGBB or #RRGGBBAA; empty selects
// the default fill.
type Feature struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color,omitempty"`
	Label  string  `json:"label,omitempty"`
}

type format int

const (
	formatJSON format = iota
	formatGzip
	formatZstd
)

func formatOf(path string) (format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".json"):
		return formatJSON, nil
	case strings.HasSuffix(name, ".json.gz"):
		return formatGzip, nil
	case strings.HasSuffix(name, ".json.zst"):
		return formatZstd, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Decode reads a document and builds its feature sets.
func Decode(r io.Reader, defaultFill color.RGBA) ([]*model.FeatureSet, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return doc.Build(defaultFill)
}

// Build converts the document into feature sets.
func (d *Document) Build(defaultFill color.RGBA) ([]*model.FeatureSet, error) {
	sets := make([]*model.FeatureSet, 0, len(d.Sets))
	for i, s := range d.Sets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("set %d", i+1)
		}
		set := model.NewFeatureSet(name)
		for j, f := range s.Features {
			if f.Width < 0 || f.Height < 0 {
				return nil, fmt.Errorf("set %q feature %d: negative size %vx%v", name, j, f.Width, f.Height)
			}
			fill := defaultFill
			if f.Color != "" {
				c, err := theme.ParseColor(f.Color)
				if err != nil {
					return nil, fmt.Errorf("set %q feature %d: %w", name, j, err)
				}
				fill = c
			}
			set.Add(model.NewFeature(model.Rect{Left: f.Left, Bottom: f.Bottom, Width: f.Width, Height: f.Height}, fill, f.Label))
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// NewDocument captures sets for encoding.
func NewDocument(sets ...*model.FeatureSet) *Document {
	doc := &Document{Sets: make([]Set, 0, len(sets))}
	for _, s := range sets {
		out := Set{Name: s.Name, Features: make([]Feature, 0, s.Len())}
		s.Each(func(_ int, f *model.Feature) {
			r := f.Rect()
			out.Features = append(out.Features, Feature{
				Left:   r.Left,
				Bottom: r.Bottom,
				Width:  r.Width,
				Height: r.Height,
				Color:  theme.FormatColor(f.Fill()),
				Label:  f.Label(),
			})
		})
		doc.Sets = append(doc.Sets, out)
	}
	return doc
}

// Encode writes sets as an indented document.
func Encode(w io.Writer, sets ...*model.FeatureSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(sets...)); err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	return nil
}

// Open returns a reader for path, decompressing by extension.
func Open(path string) (io.ReadCloser, error) {
	fm, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch fm {
	case formatGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &stacked{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case formatZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		rc := zr.IOReadCloser()
		return &stacked{Reader: rc, closers: []io.Closer{rc, f}}, nil
	}
	return f, nil
}

// Create returns a writer for path, compressing by extension.
func Create(path string) (io.WriteCloser, error) {
	fm, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch fm {
	case formatGzip:
		zw := gzip.NewWriter(f)
		return &stacked{Writer: zw, closers: []io.Closer{zw, f}}, nil
	case formatZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return &stacked{Writer: zw, closers: []io.Closer{zw, f}}, nil
	}
	return f, nil
}

// stacked closes a decoder or encoder before the file beneath it.
type stacked struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (s *stacked) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadFile reads the feature sets stored at path.
func LoadFile(path string, defaultFill color.RGBA) ([]*model.FeatureSet, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	sets, err := Decode(rc, defaultFill)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sets, nil
}

// SaveFile writes sets to path, compressing by extension.
func SaveFile(path string, sets ...*model.FeatureSet) (err error) {
	wc, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(wc, sets...)
}

// Glob expands a doublestar pattern to the feature files it matches, in
// lexical order. Files with unknown extensions are skipped.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	seen := make(map[string]struct{})
	var files []string
	for _, m := range matches {
		if _, err := formatOf(m); err != nil {
			continue
		}
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, fmt.Errorf("invalid file path %q: %w", m, err)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every file matching the patterns and returns their sets in
// file order.
func Load(defaultFill color.RGBA, patterns ...string) ([]*model.FeatureSet, error) {
	var all []*model.FeatureSet
	for _, p := range patterns {
		files, err := Glob(p)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no feature files match %q", p)
		}
		for _, f := range files {
			sets, err := LoadFile(f, defaultFill)
			if err != nil {
				return nil, err
			}
			all = append(all, sets...)
		}
	}
	return all, nil
}
