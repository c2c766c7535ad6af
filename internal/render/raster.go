package render

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Raster is a Canvas drawing directly into an *image.RGBA with
// golang.org/x/image/draw.
type Raster struct {
	img    *image.RGBA
	scaler xdraw.Transformer
}

// NewRaster creates a w x h raster canvas using nearest-neighbour sampling.
func NewRaster(w, h int) *Raster {
	return &Raster{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		scaler: xdraw.NearestNeighbor,
	}
}

// SetScaler replaces the image sampler, for example with xdraw.ApproxBiLinear.
func (r *Raster) SetScaler(s xdraw.Transformer) { r.scaler = s }

func (r *Raster) Size() (int, int) { return r.img.Rect.Dx(), r.img.Rect.Dy() }

func (r *Raster) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("resize raster to %dx%d: dimensions must be positive", w, h)
	}
	if w == r.img.Rect.Dx() && h == r.img.Rect.Dy() {
		return nil
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

func (r *Raster) Clear(c color.RGBA) {
	xdraw.Draw(r.img, r.img.Rect, image.NewUniform(nrgba(c)), image.Point{}, xdraw.Src)
}

func (r *Raster) DrawImage(img image.Image, src image.Rectangle, dst Quad) error {
	src = src.Intersect(img.Bounds())
	if src.Empty() || dst.W <= 0 || dst.H <= 0 {
		return nil
	}
	sx := dst.W / float64(src.Dx())
	sy := dst.H / float64(src.Dy())
	m := f64.Aff3{
		sx, 0, dst.X - float64(src.Min.X)*sx,
		0, sy, dst.Y - float64(src.Min.Y)*sy,
	}
	r.scaler.Transform(r.img, m, img, src, xdraw.Over, nil)
	return nil
}

func (r *Raster) FillRect(dst Quad, c color.RGBA) error {
	rect := dst.Rect().Intersect(r.img.Rect)
	if rect.Empty() {
		return nil
	}
	xdraw.Draw(r.img, rect, image.NewUniform(nrgba(c)), image.Point{}, xdraw.Over)
	return nil
}

func (r *Raster) StrokeRect(dst Quad, c color.RGBA, width float64) error {
	rect := dst.Rect()
	t := max(int(width+0.5), 1)
	src := image.NewUniform(nrgba(c))
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t),
		image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y+t, rect.Min.X+t, rect.Max.Y-t),
		image.Rect(rect.Max.X-t, rect.Min.Y+t, rect.Max.X, rect.Max.Y-t),
	}
	for _, e := range edges {
		e = e.Intersect(r.img.Rect)
		if !e.Empty() {
			xdraw.Draw(r.img, e, src, image.Point{}, xdraw.Over)
		}
	}
	return nil
}

func (r *Raster) Image() image.Image { return r.img }

func (r *Raster) Close() error { return nil }
