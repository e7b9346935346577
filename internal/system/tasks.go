package system

import (
	"time"

	coresys "github.com/bodyfx/engine/internal/core/system"
	"github.com/bodyfx/engine/internal/world"
)

// TaskDrainSystem runs the attribute writes queued on the world task
// queue this tick. Phase 3 (PostUpdate): after the timeline tick, so a
// command's write and a reset's restoring write issued in the same tick
// land in FIFO order before the frame ends.
type TaskDrainSystem struct {
	scene      *world.State
	maxPerTick int
}

func NewTaskDrainSystem(scene *world.State, maxPerTick int) *TaskDrainSystem {
	return &TaskDrainSystem{scene: scene, maxPerTick: maxPerTick}
}

func (s *TaskDrainSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *TaskDrainSystem) Update(_ time.Duration) {
	s.scene.DrainTasks(s.maxPerTick)
}
