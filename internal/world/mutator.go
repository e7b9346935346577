package world

import (
	"go.uber.org/zap"
)

// Clamp ranges for attribute writes. Scale clamps defend against bad
// script/config values; the morph range matches the slider range of the
// morph store this engine fronts.
const (
	ScaleMin = 0.0
	ScaleMax = 5.0
	MorphMin = 0.0
	MorphMax = 100.0
)

// Mutator performs attribute writes against the scene. Every call
// marshals through the loop task queue, so callers may invoke it from
// any goroutine and with stale handles — a stale handle is a silent
// no-op by the time the task runs.
type Mutator struct {
	state *State
	log   *zap.Logger

	// visGroups maps a group key to the exact object names it expands to.
	// Installed once at boot from the loaded timeline table.
	visGroups map[string][]string
}

func NewMutator(state *State, log *zap.Logger) *Mutator {
	return &Mutator{state: state, log: log, visGroups: make(map[string][]string)}
}

// SetVisGroups installs the group key → object names expansion used by
// ApplyVisibility. Call before the loop starts.
func (m *Mutator) SetVisGroups(groups map[string][]string) {
	m.visGroups = groups
}

// ApplyScale sets the local scale of a named node.
func (m *Mutator) ApplyScale(h Handle, nodeKey string, factor float64, logOps bool) {
	factor = clamp(factor, ScaleMin, ScaleMax)
	m.state.Post(func() {
		a := m.state.Resolve(h)
		if a == nil || !a.Loaded {
			return
		}
		if factor == 1.0 {
			delete(a.NodeScales, nodeKey)
		} else {
			a.NodeScales[nodeKey] = factor
		}
		if logOps {
			m.log.Info("scale applied",
				zap.String("actor", a.Name),
				zap.String("node", nodeKey),
				zap.Float64("factor", factor))
		}
	})
}

// ApplyMorphDelta adds delta to the engine's accumulated value for the
// morph and clamps the result to the slider range.
func (m *Mutator) ApplyMorphDelta(h Handle, morphName string, delta float64, logOps bool) {
	m.state.Post(func() {
		a := m.state.Resolve(h)
		if a == nil {
			return
		}
		v := clamp(a.Morphs[morphName]+delta, MorphMin, MorphMax)
		if v == 0 {
			delete(a.Morphs, morphName)
		} else {
			a.Morphs[morphName] = v
		}
		if logOps {
			m.log.Info("morph applied",
				zap.String("actor", a.Name),
				zap.String("morph", morphName),
				zap.Float64("delta", delta),
				zap.Float64("value", v))
		}
	})
}

// ApplyVisibility shows or hides objects by key: a vis-group key applies
// to every member, anything else is treated as an exact object name.
func (m *Mutator) ApplyVisibility(h Handle, key string, visible bool, logOps bool) {
	names, ok := m.visGroups[key]
	if !ok {
		names = []string{key}
	}
	m.state.Post(func() {
		a := m.state.Resolve(h)
		if a == nil || !a.Loaded {
			return
		}
		for _, name := range names {
			if visible {
				delete(a.Hidden, name)
			} else {
				a.Hidden[name] = true
			}
		}
		if logOps {
			m.log.Info("visibility applied",
				zap.String("actor", a.Name),
				zap.String("key", key),
				zap.Bool("visible", visible),
				zap.Int("objects", len(names)))
		}
	})
}

// ResetAllMorphs clears every accumulated morph value this engine holds
// for the actor.
func (m *Mutator) ResetAllMorphs(h Handle, logOps bool) {
	m.state.Post(func() {
		a := m.state.Resolve(h)
		if a == nil {
			return
		}
		n := len(a.Morphs)
		a.Morphs = make(map[string]float64)
		if logOps {
			m.log.Info("morphs cleared", zap.String("actor", a.Name), zap.Int("count", n))
		}
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
