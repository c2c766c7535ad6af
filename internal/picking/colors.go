// Package picking answers "which feature is under this viewport point" by
// drawing every feature into an off-screen identity surface in a color that
// encodes its indices, then reading pixels back.
package picking

import (
	"image/color"

	"github.com/example/pixelpane/internal/generation"
)

// MaxSets and MaxFeatures bound what the 16-bit color channels can encode.
const (
	MaxSets     = 0xFFFF - 1
	MaxFeatures = 0xFFFF
)

// Colors assigns identity colors to the features of one set. Red and green
// hold setIndex+1, blue and alpha hold the feature index, both big-endian.
type Colors struct {
	gen      generation.Counter
	setIndex int
}

// NewColors creates the assignment for the set at setIndex.
func NewColors(setIndex int) *Colors {
	c := &Colors{setIndex: setIndex}
	c.gen.Attach()
	return c
}

func (c *Colors) Generation() uint64 { return c.gen.Generation() }

// SetIndex returns the set position the colors encode.
func (c *Colors) SetIndex() int { return c.setIndex }

// SetSetIndex moves the assignment to a new set position.
func (c *Colors) SetSetIndex(i int) {
	if i == c.setIndex {
		return
	}
	c.setIndex = i
	c.gen.Bump()
}

// Color returns the identity color of the feature at featureIndex.
func (c *Colors) Color(featureIndex int) color.RGBA {
	return Encode(c.setIndex, featureIndex)
}

// Encodable reports whether the feature at featureIndex has a color that
// decodes back to it.
func (c *Colors) Encodable(featureIndex int) bool {
	return featureIndex >= 0 && featureIndex <= MaxFeatures && c.setIndex >= 0 && c.setIndex <= MaxSets
}

// Encode packs a set and feature index into a color. Indices past the
// channel capacity wrap.
func Encode(setIndex, featureIndex int) color.RGBA {
	s := uint16(setIndex + 1)
	f := uint16(featureIndex)
	return color.RGBA{R: uint8(s >> 8), G: uint8(s), B: uint8(f >> 8), A: uint8(f)}
}

// Decode unpacks a pixel. ok is false when the pixel encodes no feature.
func Decode(px [4]byte) (setIndex, featureIndex int, ok bool) {
	s := int(px[0])<<8 | int(px[1])
	f := int(px[2])<<8 | int(px[3])
	if s == 0 {
		return 0, 0, false
	}
	return s - 1, f, true
}
