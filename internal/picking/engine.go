package picking

import (
	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/generation"
	"github.com/example/pixelpane/internal/logging"
	"github.com/example/pixelpane/internal/model"
	"github.com/example/pixelpane/internal/viewport"
)

// DefaultMissThreshold is the number of consecutive cache misses answered
// with single-pixel reads before the block is refreshed.
const DefaultMissThreshold = 3

// Layer draws one feature set into the identity surface.
type Layer interface {
	RenderPicking(t Target, c *Colors)
}

// LayerFunc resolves the layer that draws a set.
type LayerFunc func(*model.FeatureSet) Layer

// Engine resolves viewport points to features.
type Engine struct {
	sets           *model.FeatureSets
	layers         LayerFunc
	projection     *viewport.Projection
	transformation *viewport.Transformation
	target         Target
	buffer         *Buffer

	colors    map[*model.FeatureSet]*Colors
	tracker   generation.Tracker
	listeners event.Group
	force     bool
	miss      int
	threshold int
	blockSize int
	redraws   int
	destroyed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithBlockSize sets the edge length of the cached read-back block.
func WithBlockSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.blockSize = n
		}
	}
}

// WithMissThreshold sets how many consecutive misses are tolerated before
// the block is refreshed.
func WithMissThreshold(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.threshold = n
		}
	}
}

// NewEngine wires an engine to the viewer state. target is resized to the
// projection.
func NewEngine(sets *model.FeatureSets, layers LayerFunc, projection *viewport.Projection,
	transformation *viewport.Transformation, target Target, opts ...Option) *Engine {
	e := &Engine{
		sets:           sets,
		layers:         layers,
		projection:     projection,
		transformation: transformation,
		target:         target,
		colors:         make(map[*model.FeatureSet]*Colors),
		force:          true,
		threshold:      DefaultMissThreshold,
		blockSize:      DefaultBlockSize,
	}
	for _, o := range opts {
		o(e)
	}
	target.Resize(projection.Width(), projection.Height())
	e.buffer = NewBuffer(e.blockSize, projection.Width(), projection.Height(), target)

	e.listeners.Add(sets, sets.Added.Subscribe(e.onSetAdded))
	e.listeners.Add(sets, sets.Removed.Subscribe(e.onSetRemoved))
	sets.Each(func(_ int, s *model.FeatureSet) { e.onSetAdded(s) })
	return e
}

func (e *Engine) onSetAdded(s *model.FeatureSet) {
	if e.sets.Len() > MaxSets {
		logging.For("picking").Warn("too many feature sets for identity colors", "sets", e.sets.Len())
	}
	e.colors[s] = NewColors(0)
	e.assignIndices()
	e.force = true
}

func (e *Engine) onSetRemoved(s *model.FeatureSet) {
	delete(e.colors, s)
	e.tracker.Forget(s)
	e.assignIndices()
	e.force = true
}

func (e *Engine) assignIndices() {
	e.sets.Each(func(i int, s *model.FeatureSet) {
		e.colors[s].SetSetIndex(i)
	})
}

// Colors returns the assignment used for s.
func (e *Engine) Colors(s *model.FeatureSet) *Colors { return e.colors[s] }

func (e *Engine) producers() []generation.Producer {
	ps := make([]generation.Producer, 0, e.sets.Len()+2)
	ps = append(ps, e.projection, e.transformation)
	e.sets.Each(func(_ int, s *model.FeatureSet) { ps = append(ps, s) })
	return ps
}

// render redraws the identity surface when any dependency moved or a
// redraw was forced. It reports whether it drew.
func (e *Engine) render() bool {
	if e.force {
		e.tracker.Reset()
	}
	return e.tracker.UpdateAll(e.producers(), func() {
		e.target.Clear()
		e.sets.Each(func(_ int, s *model.FeatureSet) {
			if l := e.layers(s); l != nil {
				l.RenderPicking(e.target, e.colors[s])
			}
		})
		e.buffer.Invalidate()
		e.miss = 0
		e.force = false
		e.redraws++
	})
}

// FeatureAt returns the feature under the viewport point (x, y), or nil.
// Points outside the viewport are rejected without touching the surface.
// Querying a destroyed engine panics.
func (e *Engine) FeatureAt(x, y float64) *model.Feature {
	if e.destroyed {
		panic("picking: FeatureAt on destroyed engine")
	}
	if !e.projection.Contains(x, y) {
		return nil
	}
	e.render()

	var px [4]byte
	if e.buffer.Contains(x, y) {
		px = e.buffer.Read(x, y)
		e.miss = 0
	} else if e.miss++; e.miss > e.threshold {
		px = e.buffer.Read(x, y)
		e.miss = 0
	} else {
		wx, wy := WindowCoordinates(x, y, e.projection.Width(), e.projection.Height())
		e.target.ReadPixels(wx, wy, 1, 1, px[:])
	}
	return e.resolve(px)
}

func (e *Engine) resolve(px [4]byte) *model.Feature {
	si, fi, ok := Decode(px)
	if !ok || si >= e.sets.Len() {
		return nil
	}
	s := e.sets.At(si)
	if fi >= s.Len() {
		return nil
	}
	return s.At(fi)
}

// IsExpensive reports whether a query at (x, y) would miss the cached
// block.
func (e *Engine) IsExpensive(x, y float64) bool {
	if e.destroyed {
		panic("picking: IsExpensive on destroyed engine")
	}
	return !e.buffer.Contains(x, y)
}

// ApplyViewportResize resizes the identity surface to the projection and
// forces a redraw on the next query.
func (e *Engine) ApplyViewportResize() {
	w, h := e.projection.Width(), e.projection.Height()
	e.target.Resize(w, h)
	e.buffer.Resize(w, h)
	e.force = true
}

// Redraws returns how many times the identity surface was drawn.
func (e *Engine) Redraws() int { return e.redraws }

// Destroy detaches from the feature sets.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.listeners.ReleaseAll()
	e.colors = nil
	e.destroyed = true
}
