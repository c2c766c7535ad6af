package control

import (
	"time"

	"github.com/example/pixelpane/internal/animation"
)

// Animator runs animations on the frame loop.
type Animator interface {
	AddAnimation(a animation.Animation)
	RemoveAnimation(a animation.Animation)
}

// Kinetic keeps at most one fling running.
type Kinetic struct {
	target  animation.Translator
	driver  Animator
	tau     time.Duration
	current *animation.KineticTranslate
}

// NewKinetic flings target through driver with time constant tau. A
// non-positive tau selects animation.DefaultTimeConstant.
func NewKinetic(driver Animator, target animation.Translator, tau time.Duration) *Kinetic {
	if tau <= 0 {
		tau = animation.DefaultTimeConstant
	}
	return &Kinetic{target: target, driver: driver, tau: tau}
}

// Start flings with velocity (vx, vy) in image units per millisecond,
// replacing any running fling.
func (k *Kinetic) Start(vx, vy float64) {
	k.Stop()
	k.current = animation.NewKineticTranslate(k.target, vx, vy, k.tau)
	k.driver.AddAnimation(k.current)
}

// Stop ends the running fling where it is.
func (k *Kinetic) Stop() {
	if k.current == nil {
		return
	}
	k.current.Cancel()
	k.driver.RemoveAnimation(k.current)
	k.current = nil
}

// Running reports whether a fling is still moving.
func (k *Kinetic) Running() bool {
	return k.current != nil && !k.current.Finished()
}

// TimeConstant returns the decay time constant.
func (k *Kinetic) TimeConstant() time.Duration { return k.tau }
