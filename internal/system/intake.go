package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/bodyfx/engine/internal/core/event"
	coresys "github.com/bodyfx/engine/internal/core/system"
)

// IntakeSystem drains the host-facing animation event queue onto the
// bus. Host engine hooks fire on arbitrary goroutines; this queue is
// the single handoff into the loop. Phase 0 (Input).
type IntakeSystem struct {
	queue      <-chan event.AnimationEvent
	bus        *event.Bus
	maxPerTick int
	log        *zap.Logger
}

func NewIntakeSystem(queue <-chan event.AnimationEvent, bus *event.Bus, maxPerTick int, log *zap.Logger) *IntakeSystem {
	if maxPerTick <= 0 {
		maxPerTick = 64
	}
	return &IntakeSystem{queue: queue, bus: bus, maxPerTick: maxPerTick, log: log}
}

func (s *IntakeSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *IntakeSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case ev := <-s.queue:
			event.Emit(s.bus, ev)
		default:
			return
		}
	}
}
