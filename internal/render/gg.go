package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// GG is a Canvas backed by a gogpu/gg context.
type GG struct {
	ctx *gg.Context

	// ImageBuf conversion is costly; keep the last converted source.
	srcImage image.Image
	srcBuf   *gg.ImageBuf
}

// NewGG creates a w x h gg canvas.
func NewGG(w, h int) *GG {
	return &GG{ctx: gg.NewContext(w, h)}
}

func (g *GG) Size() (int, int) { return g.ctx.Width(), g.ctx.Height() }

func (g *GG) Resize(w, h int) error {
	if err := g.ctx.Resize(w, h); err != nil {
		return fmt.Errorf("resize gg canvas: %w", err)
	}
	return nil
}

func (g *GG) Clear(c color.RGBA) {
	g.ctx.ClearWithColor(ggColor(c))
}

func (g *GG) DrawImage(img image.Image, src image.Rectangle, dst Quad) error {
	src = src.Intersect(img.Bounds())
	if src.Empty() || dst.W <= 0 || dst.H <= 0 {
		return nil
	}
	if img != g.srcImage || g.srcBuf == nil {
		buf := gg.ImageBufFromImage(img)
		if buf == nil {
			return fmt.Errorf("convert %T for gg", img)
		}
		g.srcImage, g.srcBuf = img, buf
	}
	// gg addresses the buffer from its own origin.
	rel := src.Sub(img.Bounds().Min)
	g.ctx.DrawImageEx(g.srcBuf, gg.DrawImageOptions{
		X:             dst.X,
		Y:             dst.Y,
		DstWidth:      dst.W,
		DstHeight:     dst.H,
		SrcRect:       &rel,
		Interpolation: gg.InterpNearest,
	})
	return nil
}

func (g *GG) FillRect(dst Quad, c color.RGBA) error {
	g.setColor(c)
	g.ctx.DrawRectangle(dst.X, dst.Y, dst.W, dst.H)
	if err := g.ctx.Fill(); err != nil {
		return fmt.Errorf("fill rect: %w", err)
	}
	return nil
}

func (g *GG) StrokeRect(dst Quad, c color.RGBA, width float64) error {
	g.setColor(c)
	g.ctx.SetLineWidth(width)
	g.ctx.DrawRectangle(dst.X, dst.Y, dst.W, dst.H)
	if err := g.ctx.Stroke(); err != nil {
		return fmt.Errorf("stroke rect: %w", err)
	}
	return nil
}

func (g *GG) setColor(c color.RGBA) {
	g.ctx.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func (g *GG) Image() image.Image { return g.ctx.Image() }

func (g *GG) Close() error {
	g.srcImage, g.srcBuf = nil, nil
	return g.ctx.Close()
}

func ggColor(c color.RGBA) gg.RGBA {
	return gg.RGBA{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: float64(c.A) / 255}
}
