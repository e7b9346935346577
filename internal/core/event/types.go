package event

import "github.com/bodyfx/engine/internal/world"

// AnimationEvent is an animation-graph tag fired by (or on behalf of) an
// actor. The trigger layer decides whether the tag starts a timeline,
// cancels one, or means nothing.
type AnimationEvent struct {
	Caster world.Handle
	Tag    string
}

// ActorDespawned notifies systems that outstanding handles for this
// actor have gone stale. Emitted by the host after Despawn.
type ActorDespawned struct {
	Actor world.Handle
}
