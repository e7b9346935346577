package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain intake queues from host hooks
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: advance timelines and tweens
	PhasePostUpdate              // 3: drain the world task queue
	PhaseCleanup                 // 4: destroy queued entities
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
