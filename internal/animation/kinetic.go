package animation

import (
	"math"
	"time"
)

// DefaultTimeConstant is the decay time constant of a kinetic pan.
const DefaultTimeConstant = 325 * time.Millisecond

// stopVelocity is the speed, in units per millisecond, below which a
// kinetic pan ends.
const stopVelocity = 0.01

// Translator receives incremental pans.
type Translator interface {
	TranslateRelative(dx, dy float64)
}

// KineticTranslate continues a pan with exponentially decaying velocity.
// After t milliseconds the accumulated displacement is tau*v*(1-exp(-t/tau)).
type KineticTranslate struct {
	target Translator
	vx, vy float64
	tau    float64

	start        time.Duration
	started      bool
	lastX, lastY float64
	finished     bool
}

// NewKineticTranslate starts a decay with initial velocity (vx, vy) in
// units per millisecond. A non-positive time constant panics.
func NewKineticTranslate(target Translator, vx, vy float64, tau time.Duration) *KineticTranslate {
	if tau <= 0 {
		panic("animation: non-positive time constant")
	}
	return &KineticTranslate{
		target: target,
		vx:     vx,
		vy:     vy,
		tau:    float64(tau) / float64(time.Millisecond),
	}
}

func (k *KineticTranslate) Progress(now time.Duration) {
	if k.finished {
		return
	}
	if !k.started {
		k.start = now
		k.started = true
		return
	}

	elapsed := float64(now-k.start) / float64(time.Millisecond)
	factor := math.Exp(-elapsed / k.tau)
	if math.Abs(factor*k.vx) < stopVelocity && math.Abs(factor*k.vy) < stopVelocity {
		k.finished = true
		return
	}

	integrated := (1 - factor) * k.tau
	x, y := integrated*k.vx, integrated*k.vy
	k.target.TranslateRelative(x-k.lastX, y-k.lastY)
	k.lastX, k.lastY = x, y
}

func (k *KineticTranslate) Finished() bool { return k.finished }

func (k *KineticTranslate) Cancel() { k.finished = true }

// Displacement returns the total offset applied so far.
func (k *KineticTranslate) Displacement() (float64, float64) { return k.lastX, k.lastY }
