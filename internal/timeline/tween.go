package timeline

import "github.com/bodyfx/engine/internal/world"

// tweenKey identifies the one allowed tween per (entity, morph).
// Registering another tween for the same key replaces the old one.
type tweenKey struct {
	actor world.ActorID
	morph string
}

// tween is an in-flight linear interpolation of a morph delta. It is
// owned by the Runtime and carries the token it was scheduled under;
// a newer token makes it dead weight to be dropped on the next tick.
type tween struct {
	casterID world.ActorID
	token    uint64
	actor    world.Handle
	role     Role
	morph    string

	from     float64
	to       float64
	elapsed  float64
	duration float64

	// applied is the cumulative delta already handed to the mutator.
	// Each tick applies only the increment, so partial progress is
	// exactly what is on screen.
	applied float64
	marked  bool
	logOps  bool
}

// advance moves the tween by dt and returns the incremental delta to
// apply plus whether the tween has converged.
func (t *tween) advance(dt float64) (step float64, done bool) {
	t.elapsed += dt
	alpha := t.elapsed / t.duration
	if alpha >= 1.0 {
		alpha = 1.0
	}
	target := t.from + (t.to-t.from)*alpha
	step = target - t.applied
	t.applied = target
	return step, alpha >= 1.0
}
