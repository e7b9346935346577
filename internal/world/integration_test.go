package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bodyfx/engine/internal/timeline"
	"github.com/bodyfx/engine/internal/world"
)

// A reset issued in the same tick as pending attribute writes must win:
// the restore tasks are posted after them, and the queue is FIFO, so by
// the time the drain finishes the scene is back at baseline.
func TestResetOvertakesQueuedMutation(t *testing.T) {
	scene := world.NewState(64, zap.NewNop())
	mut := world.NewMutator(scene, zap.NewNop())
	rt := timeline.NewRuntime(mut, 0, zap.NewNop())

	caster := scene.Spawn("Alice", 0, 0, 0)
	target := scene.Spawn("Bob", 50, 0, 0)

	rt.StartTimeline(caster, target, []timeline.TimedCommand{
		{Kind: timeline.KindScale, Role: timeline.RoleCaster, TimeSeconds: 0, Key: "NPC Head [Head]", Scale: 0.5},
		{Kind: timeline.KindMorph, Role: timeline.RoleCaster, TimeSeconds: 0, MorphName: "Belly Bulge", Delta: 25},
	}, false)

	// Tick queues the scale and morph writes, then the reset queues the
	// restores behind them, all before a single task has run.
	rt.Update(0.1)
	rt.CancelAndReset(caster, false, true, true)
	scene.DrainTasks(0)

	a := scene.Resolve(caster)
	require.NotNil(t, a)
	assert.Empty(t, a.NodeScales)
	assert.Empty(t, a.Morphs)
}

// Full stack pass without a reset: timeline writes survive the drain.
func TestTimelineWritesLandThroughQueue(t *testing.T) {
	scene := world.NewState(64, zap.NewNop())
	mut := world.NewMutator(scene, zap.NewNop())
	mut.SetVisGroups(map[string][]string{"LThigh": {"3BA_LThighShape"}})
	rt := timeline.NewRuntime(mut, 0, zap.NewNop())

	caster := scene.Spawn("Alice", 0, 0, 0)
	target := scene.Spawn("Bob", 50, 0, 0)

	rt.StartTimeline(caster, target, []timeline.TimedCommand{
		{Kind: timeline.KindScale, Role: timeline.RoleCaster, TimeSeconds: 0, Key: "NPC Head [Head]", Scale: 0.5},
		{Kind: timeline.KindVisibility, Role: timeline.RoleTarget, TimeSeconds: 0, Key: "LThigh", Visible: false},
		{Kind: timeline.KindMorph, Role: timeline.RoleCaster, TimeSeconds: 0, MorphName: "Belly Bulge", Delta: 10, TweenSeconds: 0.5},
	}, false)

	rt.Update(0.25)
	rt.Update(0.25)
	scene.DrainTasks(0)

	a := scene.Resolve(caster)
	assert.Equal(t, 0.5, a.NodeScales["NPC Head [Head]"])
	assert.InDelta(t, 10.0, a.Morphs["Belly Bulge"], 1e-9)

	b := scene.Resolve(target)
	assert.True(t, b.Hidden["3BA_LThighShape"])
}
