package picking

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Reader reads identity pixels. Coordinates are window pixels with the
// origin at the bottom-left; rows are written bottom-up, 4 bytes per pixel.
// Pixels outside the surface read as zero.
type Reader interface {
	ReadPixels(left, bottom, w, h int, dst []byte)
}

// Target is the off-screen identity surface.
type Target interface {
	Reader
	Resize(w, h int)
	// Clear resets every pixel to "no feature".
	Clear()
	// FillRect fills r, given in top-left window pixels, with c exactly.
	FillRect(r image.Rectangle, c color.RGBA)
}

// Surface is a Target backed by an *image.RGBA. Pixels are written with the
// Src operator so identity colors are never blended.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a w x h identity surface.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (s *Surface) Resize(w, h int) {
	if s.img.Bounds().Dx() == w && s.img.Bounds().Dy() == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (s *Surface) Clear() {
	clear(s.img.Pix)
}

func (s *Surface) FillRect(r image.Rectangle, c color.RGBA) {
	r = r.Intersect(s.img.Rect)
	if r.Empty() {
		return
	}
	xdraw.Draw(s.img, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (s *Surface) ReadPixels(left, bottom, w, h int, dst []byte) {
	b := s.img.Rect
	for row := 0; row < h; row++ {
		y := b.Dy() - 1 - (bottom + row)
		out := dst[row*w*4 : (row+1)*w*4]
		if y < 0 || y >= b.Dy() {
			clear(out)
			continue
		}
		for col := 0; col < w; col++ {
			x := left + col
			px := out[col*4 : col*4+4]
			if x < 0 || x >= b.Dx() {
				clear(px)
				continue
			}
			copy(px, s.img.Pix[s.img.PixOffset(x, y):])
		}
	}
}

// Image exposes the surface for debugging dumps.
func (s *Surface) Image() *image.RGBA { return s.img }
