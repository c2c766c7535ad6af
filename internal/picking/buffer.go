package picking

import "math"

// DefaultBlockSize is the edge length of the cached read-back block.
const DefaultBlockSize = 400

// Buffer caches one square block of identity pixels around a previous
// query so nearby queries avoid touching the surface.
type Buffer struct {
	extent        int
	width, height int
	left, bottom  int
	readW, readH  int
	pix           []byte
	valid         bool
	src           Reader
}

// NewBuffer creates an invalid buffer reading from src.
func NewBuffer(extent, width, height int, src Reader) *Buffer {
	return &Buffer{
		extent: extent,
		width:  width,
		height: height,
		pix:    make([]byte, extent*extent*4),
		src:    src,
	}
}

// WindowCoordinates converts a viewport point to bottom-left window pixels.
func WindowCoordinates(x, y float64, width, height int) (int, int) {
	return int(math.Floor(x + float64(width)/2)), int(math.Floor(y + float64(height)/2))
}

// Contains reports whether the viewport point lies in the valid cached
// block.
func (b *Buffer) Contains(x, y float64) bool {
	if !b.valid {
		return false
	}
	wx, wy := WindowCoordinates(x, y, b.width, b.height)
	return wx >= b.left && wx < b.left+b.extent && wy >= b.bottom && wy < b.bottom+b.extent
}

// Update reads a fresh block centred on the viewport point.
func (b *Buffer) Update(x, y float64) {
	wx, wy := WindowCoordinates(x, y, b.width, b.height)
	shift := (b.extent + 1) / 2
	b.left = max(wx-shift, 0)
	b.bottom = max(wy-shift, 0)
	b.readW = min(b.extent, b.width)
	b.readH = min(b.extent, b.height)
	b.src.ReadPixels(b.left, b.bottom, b.readW, b.readH, b.pix[:b.readW*b.readH*4])
	b.valid = true
}

// Read returns the pixel under the viewport point, refreshing the block
// first when the point is outside it.
func (b *Buffer) Read(x, y float64) [4]byte {
	if !b.Contains(x, y) {
		b.Update(x, y)
	}
	wx, wy := WindowCoordinates(x, y, b.width, b.height)
	relX, relY := wx-b.left, wy-b.bottom
	var px [4]byte
	if relX < 0 || relX >= b.readW || relY < 0 || relY >= b.readH {
		return px
	}
	off := 4 * (relY*b.readW + relX)
	copy(px[:], b.pix[off:off+4])
	return px
}

// Invalidate marks the cached block stale.
func (b *Buffer) Invalidate() { b.valid = false }

// Valid reports whether the cached block can serve queries.
func (b *Buffer) Valid() bool { return b.valid }

// Resize adapts to a new viewport size and invalidates the block.
func (b *Buffer) Resize(width, height int) {
	b.width = width
	b.height = height
	b.valid = false
}
