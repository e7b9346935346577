package system

import (
	"time"

	coresys "github.com/bodyfx/engine/internal/core/system"
	"github.com/bodyfx/engine/internal/timeline"
)

// TimelineTickSystem advances active timelines and tweens by the frame
// delta. Phase 2 (Update).
type TimelineTickSystem struct {
	rt *timeline.Runtime
}

func NewTimelineTickSystem(rt *timeline.Runtime) *TimelineTickSystem {
	return &TimelineTickSystem{rt: rt}
}

func (s *TimelineTickSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TimelineTickSystem) Update(dt time.Duration) {
	s.rt.Update(dt.Seconds())
}
