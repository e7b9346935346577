package timeline

// Role selects which of the pair a command applies to.
type Role uint8

const (
	RoleCaster Role = iota
	RoleTarget
)

func (r Role) String() string {
	if r == RoleTarget {
		return "target"
	}
	return "caster"
}

// Kind is the attribute a command mutates.
type Kind uint8

const (
	KindScale Kind = iota
	KindMorph
	KindVisibility
)

func (k Kind) String() string {
	switch k {
	case KindMorph:
		return "morph"
	case KindVisibility:
		return "vis"
	default:
		return "scale"
	}
}

// Curve is the tween interpolation shape. Only linear exists; the data
// loader rejects anything else, so the runtime never branches on it.
type Curve uint8

const (
	CurveLinear Curve = iota
)

// TimedCommand is one step of a timeline. Immutable once scheduled.
//
// Payload fields by Kind:
//   - KindScale:      Key (canonical node key), Scale
//   - KindVisibility: Key (vis group key or exact object name), Visible
//   - KindMorph:      MorphName, Delta, TweenSeconds (0 = instant), Curve
//
// MorphName must own its storage; it outlives any config reload.
type TimedCommand struct {
	Kind        Kind
	Role        Role
	TimeSeconds float64

	Key     string
	Scale   float64
	Visible bool

	MorphName    string
	Delta        float64
	TweenSeconds float64
	Curve        Curve
}
