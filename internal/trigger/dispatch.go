package trigger

import (
	"go.uber.org/zap"

	"github.com/bodyfx/engine/internal/config"
	"github.com/bodyfx/engine/internal/core/event"
	"github.com/bodyfx/engine/internal/data"
	"github.com/bodyfx/engine/internal/timeline"
	"github.com/bodyfx/engine/internal/world"
)

// Teardown tags emitted by the host when a paired animation ends.
const (
	TagPairEnd    = "PairEnd"
	TagPairedStop = "NPCpairedStop"
)

// Dispatcher turns animation events into timeline starts and resets.
// Runs on the loop goroutine (subscribed on the event bus).
type Dispatcher struct {
	cfg   *config.Config
	table *data.Table
	rt    *timeline.Runtime
	scene *world.State
	log   *zap.Logger
}

func NewDispatcher(cfg *config.Config, table *data.Table, rt *timeline.Runtime, scene *world.State, log *zap.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, table: table, rt: rt, scene: scene, log: log}
}

// Attach subscribes the dispatcher to the bus.
func (d *Dispatcher) Attach(bus *event.Bus) {
	event.Subscribe(bus, d.HandleAnimationEvent)
	event.Subscribe(bus, d.HandleActorDespawned)
}

// HandleActorDespawned drops the actor's timeline state. The restoring
// writes resolve against a stale handle and no-op; what matters is the
// token bump killing in-flight tweens and the touched books closing.
func (d *Dispatcher) HandleActorDespawned(ev event.ActorDespawned) {
	d.rt.CancelAndReset(ev.Actor, d.cfg.General.LogOps, false, false)
}

func (d *Dispatcher) HandleAnimationEvent(ev event.AnimationEvent) {
	gen := &d.cfg.General
	if !gen.EnableTimelines {
		return
	}

	d.startMapped(ev.Caster, ev.Tag)

	if gen.ResetOnPairEnd && ev.Tag == TagPairEnd {
		d.rt.CancelAndReset(ev.Caster, gen.LogOps,
			gen.ResetMorphsOnPairEnd, gen.ResetMorphsOnPairEnd)
	}
	if gen.ResetOnPairedStop && ev.Tag == TagPairedStop {
		d.rt.CancelAndReset(ev.Caster, gen.LogOps,
			gen.ResetMorphsOnPairedStop, gen.ResetMorphsOnPairedStop)
	}
}

func (d *Dispatcher) startMapped(caster world.Handle, tag string) {
	name, cmds, ok := d.table.TimelineForEvent(tag)
	if !ok || caster.IsZero() {
		return
	}

	// Resolve a target only when the timeline has target commands;
	// otherwise keep whatever the caster's previous run resolved.
	needsTarget := false
	for i := range cmds {
		if cmds[i].Role == timeline.RoleTarget {
			needsTarget = true
			break
		}
	}

	var target world.Handle
	if needsTarget {
		target = d.scene.NearestTarget(caster, d.cfg.General.TargetResolveMaxDist, d.cfg.General.LogOps)
	} else {
		target = d.rt.LastTarget(caster.ID)
	}

	if d.cfg.General.LogOps {
		d.log.Info("event mapped",
			zap.String("tag", tag),
			zap.String("timeline", name),
			zap.Int32("caster", int32(caster.ID)))
	}
	d.rt.StartTimeline(caster, target, cmds, d.cfg.General.LogOps)
}
