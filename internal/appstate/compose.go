package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/theme"
)

const (
	checkerSize = 8
	hudHeight   = 20
)

var (
	messageOnce sync.Once
	messageFace font.Face
)

// faceForMessage returns the large face used for transient messages,
// falling back to the bitmap face when the bundled font cannot be loaded.
func faceForMessage() font.Face {
	messageOnce.Do(func() {
		messageFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			logging.For("appstate").Warn("parse font", "err", err)
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			logging.For("appstate").Warn("font face", "err", err)
			return
		}
		messageFace = face
	})
	return messageFace
}

func uniform(c color.RGBA) *image.Uniform { return image.NewUniform(color.NRGBA(c)) }

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	l, d := color.NRGBA(light), color.NRGBA(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if (((x-rect.Min.X)/size)+((y-rect.Min.Y)/size))%2 == 0 {
				dst.Set(x, y, l)
			} else {
				dst.Set(x, y, d)
			}
		}
	}
}

// compose draws the backdrop, the checkerboard behind the image and the
// rendered frame on top.
func compose(dst *image.RGBA, frame image.Image, imageRect image.Rectangle, th *theme.Theme) {
	draw.Draw(dst, dst.Bounds(), uniform(th.Background), image.Point{}, draw.Src)
	drawCheckerboard(dst, imageRect, checkerSize, th.CheckerLight, th.CheckerDark)
	if frame != nil {
		draw.Draw(dst, dst.Bounds(), frame, frame.Bounds().Min, draw.Over)
	}
}

// drawHUD draws the status line along the bottom edge.
func drawHUD(dst *image.RGBA, th *theme.Theme, text string) {
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-hudHeight, b.Max.X, b.Max.Y).Intersect(b)
	draw.Draw(dst, bar, uniform(th.HUDBackground), image.Point{}, draw.Over)
	d := &font.Drawer{Dst: dst, Src: uniform(th.HUDText), Face: basicfont.Face7x13,
		Dot: fixed.P(bar.Min.X+6, bar.Max.Y-5)}
	d.DrawString(text)
}

// drawMessage centres msg in a framed box.
func drawMessage(dst *image.RGBA, th *theme.Theme, msg string) {
	face := faceForMessage()
	d := &font.Drawer{Dst: dst, Src: uniform(th.HUDText), Face: face}
	b := dst.Bounds()
	wmsg := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := b.Min.X + (b.Dx()-wmsg)/2
	py := b.Min.Y + (b.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, uniform(th.HUDBackground), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
