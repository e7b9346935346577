package world

import (
	"go.uber.org/zap"
)

// ActorID is the stable integer identity of an actor. It survives handle
// staleness: a despawned actor's ID is never reused.
type ActorID int32

// Handle is a generation-checked reference to an actor. A handle taken
// before a despawn resolves to nil afterwards instead of a recycled actor.
type Handle struct {
	ID  ActorID
	Gen uint32
}

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool { return h.ID == 0 }

// Actor holds in-memory data for one actor in the scene.
// Accessed only from the loop goroutine — no locks needed.
type Actor struct {
	ID     ActorID
	Gen    uint32
	Name   string
	X      float64
	Y      float64
	Z      float64
	Dead   bool
	Loaded bool // false while the actor's 3D is not attached

	// NodeScales maps canonical skeleton node names to their current local
	// scale. Absent entry = identity (1.0).
	NodeScales map[string]float64

	// Morphs maps morph names to this engine's accumulated slider value,
	// clamped to [MorphMin, MorphMax].
	Morphs map[string]float64

	// Hidden holds object names with an explicit visibility override.
	// Absent entry = visible.
	Hidden map[string]bool
}

// State is the actor scene. Owned by the loop goroutine; the only
// cross-goroutine entry point is the task queue (Post).
type State struct {
	actors map[ActorID]*Actor
	nextID ActorID
	tasks  chan func()
	log    *zap.Logger
}

func NewState(taskQueueSize int, log *zap.Logger) *State {
	if taskQueueSize <= 0 {
		taskQueueSize = 256
	}
	return &State{
		actors: make(map[ActorID]*Actor),
		tasks:  make(chan func(), taskQueueSize),
		log:    log,
	}
}

// Spawn creates a loaded, living actor and returns its handle.
func (s *State) Spawn(name string, x, y, z float64) Handle {
	s.nextID++
	a := &Actor{
		ID:         s.nextID,
		Gen:        1,
		Name:       name,
		X:          x,
		Y:          y,
		Z:          z,
		Loaded:     true,
		NodeScales: make(map[string]float64),
		Morphs:     make(map[string]float64),
		Hidden:     make(map[string]bool),
	}
	s.actors[a.ID] = a
	return Handle{ID: a.ID, Gen: a.Gen}
}

// Despawn removes the actor. Outstanding handles go stale (Resolve → nil).
func (s *State) Despawn(h Handle) {
	a, ok := s.actors[h.ID]
	if !ok || a.Gen != h.Gen {
		return
	}
	delete(s.actors, h.ID)
}

// Resolve returns the live actor for a handle, or nil when the handle is
// zero, stale, or the actor was despawned. Callers treat nil as a no-op.
func (s *State) Resolve(h Handle) *Actor {
	if h.IsZero() {
		return nil
	}
	a, ok := s.actors[h.ID]
	if !ok || a.Gen != h.Gen {
		return nil
	}
	return a
}

// AllActors calls fn for every actor in the scene.
func (s *State) AllActors(fn func(*Actor)) {
	for _, a := range s.actors {
		fn(a)
	}
}

func (s *State) Count() int { return len(s.actors) }
