package timeline

import (
	"go.uber.org/zap"

	"github.com/bodyfx/engine/internal/world"
)

// DefaultMaxDt is the tick clamp ceiling in seconds. A loading hitch can
// hand the loop a multi-second dt; clamping keeps a single tick from
// firing many due commands at once with stale visual results.
const DefaultMaxDt = 0.25

// Mutator is the collaborator that performs the actual attribute writes.
// Implementations marshal onto the loop and treat stale handles as
// silent no-ops, so the runtime never has to care whether an actor
// still exists at the moment a write lands.
type Mutator interface {
	ApplyScale(h world.Handle, nodeKey string, factor float64, logOps bool)
	ApplyMorphDelta(h world.Handle, morphName string, delta float64, logOps bool)
	ApplyVisibility(h world.Handle, key string, visible bool, logOps bool)
	ResetAllMorphs(h world.Handle, logOps bool)
}

// run is one active timeline: the command list plus a read cursor
// advanced by accumulated elapsed time.
type run struct {
	caster  world.Handle
	target  world.Handle
	token   uint64
	cmds    []TimedCommand
	cursor  int
	elapsed float64
	logOps  bool
}

// Runtime schedules and advances timelines. All methods must be called
// from the loop goroutine; callers elsewhere hand off through the
// intake queue. State is keyed by caster identity and survives cancels.
type Runtime struct {
	mut   Mutator
	log   *zap.Logger
	maxDt float64

	states map[world.ActorID]*casterState
	active map[world.ActorID]*run
	tweens map[tweenKey]*tween
}

func NewRuntime(mut Mutator, maxDt float64, log *zap.Logger) *Runtime {
	if maxDt <= 0 {
		maxDt = DefaultMaxDt
	}
	return &Runtime{
		mut:    mut,
		log:    log,
		maxDt:  maxDt,
		states: make(map[world.ActorID]*casterState),
		active: make(map[world.ActorID]*run),
		tweens: make(map[tweenKey]*tween),
	}
}

func (r *Runtime) stateFor(id world.ActorID) *casterState {
	st, ok := r.states[id]
	if !ok {
		st = newCasterState()
		r.states[id] = st
	}
	return st
}

// StartTimeline installs cmds as the caster's active timeline under a
// fresh token. The bump is the cancellation mechanism: whatever the
// previous run still had in flight is dropped on the next tick.
// A zero caster handle is a no-op, not an error — the actor is gone and
// nothing observable can happen.
func (r *Runtime) StartTimeline(caster, target world.Handle, cmds []TimedCommand, logOps bool) {
	if caster.IsZero() {
		return
	}
	st := r.stateFor(caster.ID)
	st.token++
	st.clearTouched()
	st.lastTarget = target

	r.active[caster.ID] = &run{
		caster: caster,
		target: target,
		token:  st.token,
		cmds:   cmds,
		logOps: logOps,
	}

	if logOps {
		r.log.Info("timeline started",
			zap.Int32("caster", int32(caster.ID)),
			zap.Int32("target", int32(target.ID)),
			zap.Uint64("token", st.token),
			zap.Int("commands", len(cmds)))
	}
}

// Update advances every active timeline and tween by dt seconds.
// Non-positive dt is rejected; pathological dt is clamped. Within one
// tick a caster's due commands all execute, in ascending time order,
// before any of its tweens advance.
func (r *Runtime) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > r.maxDt {
		dt = r.maxDt
	}

	for id, a := range r.active {
		st := r.states[id]
		if st == nil || st.token != a.token {
			// Cancellation shares this goroutine, so a stale run here
			// should not happen; checked anyway.
			delete(r.active, id)
			continue
		}
		a.elapsed += dt
		for a.cursor < len(a.cmds) && a.cmds[a.cursor].TimeSeconds <= a.elapsed {
			r.execute(st, a, &a.cmds[a.cursor])
			a.cursor++
		}
		if a.cursor >= len(a.cmds) {
			// Fully consumed. Its tweens keep running on their own.
			delete(r.active, id)
		}
	}

	for key, tw := range r.tweens {
		st := r.states[tw.casterID]
		if st == nil || st.token != tw.token {
			delete(r.tweens, key)
			continue
		}
		step, done := tw.advance(dt)
		if step != 0 {
			r.mut.ApplyMorphDelta(tw.actor, tw.morph, step, tw.logOps)
			if !tw.marked {
				// Touched only once something observable happened.
				tw.marked = true
				st.set(tw.role).markMorph(tw.morph)
			}
		}
		if done {
			delete(r.tweens, key)
		}
	}
}

func (r *Runtime) execute(st *casterState, a *run, cmd *TimedCommand) {
	h := a.caster
	if cmd.Role == RoleTarget {
		h = a.target
	}
	if h.IsZero() {
		// No resolved actor for this role; nothing observable to do or
		// to book under touched.
		return
	}

	switch cmd.Kind {
	case KindScale:
		r.mut.ApplyScale(h, cmd.Key, cmd.Scale, a.logOps)
		st.set(cmd.Role).markScale(cmd.Key)

	case KindVisibility:
		r.mut.ApplyVisibility(h, cmd.Key, cmd.Visible, a.logOps)
		st.set(cmd.Role).markVis(cmd.Key)

	case KindMorph:
		if cmd.TweenSeconds > 0 {
			// Replaces any tween already running for this (actor, morph).
			r.tweens[tweenKey{actor: h.ID, morph: cmd.MorphName}] = &tween{
				casterID: a.caster.ID,
				token:    a.token,
				actor:    h,
				role:     cmd.Role,
				morph:    cmd.MorphName,
				from:     0,
				to:       cmd.Delta,
				duration: cmd.TweenSeconds,
				logOps:   a.logOps,
			}
			return
		}
		r.mut.ApplyMorphDelta(h, cmd.MorphName, cmd.Delta, a.logOps)
		st.set(cmd.Role).markMorph(cmd.MorphName)
	}
}

// CancelAndReset invalidates the caster's current run and restores every
// attribute it touched: scales back to 1.0, hidden objects back to
// visible, and — when the per-role flag allows — all accumulated morphs
// cleared in one collaborator call rather than replayed delta by delta.
// The restoring writes are posted after any mutation already queued this
// tick; the FIFO task queue makes them land last.
func (r *Runtime) CancelAndReset(caster world.Handle, logOps, resetMorphCaster, resetMorphTarget bool) {
	if caster.IsZero() {
		return
	}
	id := caster.ID
	st := r.stateFor(id)
	st.token++

	delete(r.active, id)
	for key, tw := range r.tweens {
		if tw.casterID == id {
			delete(r.tweens, key)
		}
	}

	lastTarget := st.lastTarget
	st.lastTarget = world.Handle{}
	casterTouched, targetTouched := st.take()

	for key := range casterTouched.scaleKeys {
		r.mut.ApplyScale(caster, key, 1.0, logOps)
	}
	for key := range casterTouched.visKeys {
		r.mut.ApplyVisibility(caster, key, true, logOps)
	}
	if resetMorphCaster && len(casterTouched.morphNames) > 0 {
		r.mut.ResetAllMorphs(caster, logOps)
	}

	if !lastTarget.IsZero() {
		for key := range targetTouched.scaleKeys {
			r.mut.ApplyScale(lastTarget, key, 1.0, logOps)
		}
		for key := range targetTouched.visKeys {
			r.mut.ApplyVisibility(lastTarget, key, true, logOps)
		}
		if resetMorphTarget && len(targetTouched.morphNames) > 0 {
			r.mut.ResetAllMorphs(lastTarget, logOps)
		}
	}

	if logOps {
		r.log.Info("timeline reset",
			zap.Int32("caster", int32(id)),
			zap.Uint64("token", st.token),
			zap.Int("caster_scales", len(casterTouched.scaleKeys)),
			zap.Int("target_scales", len(targetTouched.scaleKeys)))
	}
}

// Token returns the caster's current generation token (0 = never used).
func (r *Runtime) Token(id world.ActorID) uint64 {
	if st, ok := r.states[id]; ok {
		return st.token
	}
	return 0
}

// LastTarget returns the target recorded by the caster's latest run.
// The trigger layer reuses it when a timeline has no target commands.
func (r *Runtime) LastTarget(id world.ActorID) world.Handle {
	if st, ok := r.states[id]; ok {
		return st.lastTarget
	}
	return world.Handle{}
}

// TouchedKeys returns copies of one role's touched sets.
func (r *Runtime) TouchedKeys(id world.ActorID, role Role) (scales, morphs, vis []string) {
	st, ok := r.states[id]
	if !ok {
		return nil, nil, nil
	}
	ts := st.set(role)
	for k := range ts.scaleKeys {
		scales = append(scales, k)
	}
	for k := range ts.morphNames {
		morphs = append(morphs, k)
	}
	for k := range ts.visKeys {
		vis = append(vis, k)
	}
	return scales, morphs, vis
}

// ActiveRuns reports how many timelines are mid-flight.
func (r *Runtime) ActiveRuns() int { return len(r.active) }

// ActiveTweens reports how many tweens are mid-flight.
func (r *Runtime) ActiveTweens() int { return len(r.tweens) }
