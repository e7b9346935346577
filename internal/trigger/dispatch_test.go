package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bodyfx/engine/internal/config"
	"github.com/bodyfx/engine/internal/core/event"
	"github.com/bodyfx/engine/internal/data"
	"github.com/bodyfx/engine/internal/timeline"
	"github.com/bodyfx/engine/internal/world"
)

func newFixture(t *testing.T) (*config.Config, *world.State, *world.Mutator, *timeline.Runtime, *data.Table, *Dispatcher) {
	t.Helper()
	cfg := config.Defaults()
	scene := world.NewState(64, zap.NewNop())
	mut := world.NewMutator(scene, zap.NewNop())
	rt := timeline.NewRuntime(mut, cfg.Runtime.MaxDt, zap.NewNop())
	table := data.NewTable(true, zap.NewNop())
	d := NewDispatcher(cfg, table, rt, scene, zap.NewNop())
	return cfg, scene, mut, rt, table, d
}

func pairTimeline() []timeline.TimedCommand {
	return []timeline.TimedCommand{
		{Kind: timeline.KindScale, Role: timeline.RoleCaster, TimeSeconds: 0, Key: "NPC Head [Head]", Scale: 0.5},
		{Kind: timeline.KindScale, Role: timeline.RoleTarget, TimeSeconds: 0, Key: "NPC Head [Head]", Scale: 0.5},
	}
}

func TestMappedEventStartsTimelineWithResolvedTarget(t *testing.T) {
	_, scene, _, rt, table, d := newFixture(t)
	table.RegisterTimeline("pair", pairTimeline())
	table.MapEvent("PairStart_demo", "pair")

	caster := scene.Spawn("Alice", 0, 0, 0)
	partner := scene.Spawn("Bob", 50, 0, 0)
	scene.Spawn("Bystander", 500, 0, 0) // out of range

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStart_demo"})

	assert.Equal(t, uint64(1), rt.Token(caster.ID))
	assert.Equal(t, 1, rt.ActiveRuns())
	assert.Equal(t, partner, rt.LastTarget(caster.ID))
}

func TestCasterOnlyTimelineReusesLastTarget(t *testing.T) {
	_, scene, _, rt, table, d := newFixture(t)
	table.RegisterTimeline("pair", pairTimeline())
	table.MapEvent("PairStart_demo", "pair")
	table.RegisterTimeline("solo", []timeline.TimedCommand{
		{Kind: timeline.KindScale, Role: timeline.RoleCaster, TimeSeconds: 0, Key: "NPC Head [Head]", Scale: 2},
	})
	table.MapEvent("PairStage_two", "solo")

	caster := scene.Spawn("Alice", 0, 0, 0)
	partner := scene.Spawn("Bob", 50, 0, 0)

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStart_demo"})
	require.Equal(t, partner, rt.LastTarget(caster.ID))

	// Move the partner out of range; the caster-only stage must not
	// re-resolve and lose it.
	scene.Resolve(world.Handle{ID: partner.ID, Gen: partner.Gen}).X = 10000
	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStage_two"})

	assert.Equal(t, uint64(2), rt.Token(caster.ID))
	assert.Equal(t, partner, rt.LastTarget(caster.ID))
}

func TestUnmappedTagIsIgnored(t *testing.T) {
	_, scene, _, rt, _, d := newFixture(t)
	caster := scene.Spawn("Alice", 0, 0, 0)

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "SomeOtherAnim"})

	assert.Zero(t, rt.ActiveRuns())
	assert.Zero(t, rt.Token(caster.ID))
}

func TestPairEndResetsTouchedState(t *testing.T) {
	_, scene, _, rt, table, d := newFixture(t)
	table.RegisterTimeline("pair", pairTimeline())
	table.MapEvent("PairStart_demo", "pair")

	caster := scene.Spawn("Alice", 0, 0, 0)
	target := scene.Spawn("Bob", 50, 0, 0)

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStart_demo"})
	rt.Update(0.1)
	scene.DrainTasks(0)
	require.Equal(t, 0.5, scene.Resolve(caster).NodeScales["NPC Head [Head]"])
	require.Equal(t, 0.5, scene.Resolve(target).NodeScales["NPC Head [Head]"])

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: TagPairEnd})
	scene.DrainTasks(0)

	assert.Empty(t, scene.Resolve(caster).NodeScales)
	assert.Empty(t, scene.Resolve(target).NodeScales)
	assert.Zero(t, rt.ActiveRuns())
}

func TestPairedStopRespectsConfigGate(t *testing.T) {
	cfg, scene, _, rt, table, d := newFixture(t)
	cfg.General.ResetOnPairedStop = false
	table.RegisterTimeline("pair", pairTimeline())
	table.MapEvent("PairStart_demo", "pair")

	caster := scene.Spawn("Alice", 0, 0, 0)
	scene.Spawn("Bob", 50, 0, 0)

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStart_demo"})
	rt.Update(0.1)
	scene.DrainTasks(0)
	require.Equal(t, 0.5, scene.Resolve(caster).NodeScales["NPC Head [Head]"])

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: TagPairedStop})
	scene.DrainTasks(0)

	assert.Equal(t, 0.5, scene.Resolve(caster).NodeScales["NPC Head [Head]"], "no reset when gated off")
}

func TestDespawnCancelsInFlightWork(t *testing.T) {
	_, scene, _, rt, table, d := newFixture(t)
	table.RegisterTimeline("pair", []timeline.TimedCommand{
		{Kind: timeline.KindMorph, Role: timeline.RoleCaster, TimeSeconds: 0, MorphName: "Belly Bulge", Delta: 20, TweenSeconds: 2.0},
	})
	table.MapEvent("PairStart_demo", "pair")

	caster := scene.Spawn("Alice", 0, 0, 0)
	scene.Spawn("Bob", 50, 0, 0)

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStart_demo"})
	rt.Update(0.25)
	require.Equal(t, 1, rt.ActiveTweens())

	scene.Despawn(caster)
	d.HandleActorDespawned(event.ActorDespawned{Actor: caster})

	assert.Zero(t, rt.ActiveTweens())
	assert.Zero(t, rt.ActiveRuns())

	// Restores against the stale handle must not blow up when drained.
	require.NotPanics(t, func() { scene.DrainTasks(0) })
}

func TestDisabledTimelinesIgnoreEverything(t *testing.T) {
	cfg, scene, _, rt, table, d := newFixture(t)
	cfg.General.EnableTimelines = false
	table.RegisterTimeline("pair", pairTimeline())
	table.MapEvent("PairStart_demo", "pair")

	caster := scene.Spawn("Alice", 0, 0, 0)
	scene.Spawn("Bob", 50, 0, 0)

	d.HandleAnimationEvent(event.AnimationEvent{Caster: caster, Tag: "PairStart_demo"})
	assert.Zero(t, rt.ActiveRuns())
}
