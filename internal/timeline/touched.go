package timeline

import "github.com/bodyfx/engine/internal/world"

// touchedSet records which attribute keys one role had modified under
// the current token. Keys are copied in (owned) so a config reload can
// never dangle them.
type touchedSet struct {
	scaleKeys  map[string]struct{}
	morphNames map[string]struct{}
	visKeys    map[string]struct{}
}

func newTouchedSet() touchedSet {
	return touchedSet{
		scaleKeys:  make(map[string]struct{}),
		morphNames: make(map[string]struct{}),
		visKeys:    make(map[string]struct{}),
	}
}

func (t *touchedSet) markScale(key string) { t.scaleKeys[key] = struct{}{} }
func (t *touchedSet) markMorph(name string) { t.morphNames[name] = struct{}{} }
func (t *touchedSet) markVis(key string)   { t.visKeys[key] = struct{}{} }

func (t *touchedSet) empty() bool {
	return len(t.scaleKeys) == 0 && len(t.morphNames) == 0 && len(t.visKeys) == 0
}

// casterState is the per-caster-identity record: generation token,
// last resolved target, and the touched bookkeeping for both roles.
// Created on first use, reset (not destroyed) on cancel.
type casterState struct {
	token      uint64
	lastTarget world.Handle
	caster     touchedSet
	target     touchedSet
}

func newCasterState() *casterState {
	return &casterState{caster: newTouchedSet(), target: newTouchedSet()}
}

func (s *casterState) set(role Role) *touchedSet {
	if role == RoleTarget {
		return &s.target
	}
	return &s.caster
}

func (s *casterState) clearTouched() {
	s.caster = newTouchedSet()
	s.target = newTouchedSet()
}

// take snapshots both touched sets and clears them in the same step, so
// the reset that consumes the snapshot starts from clean accounting.
func (s *casterState) take() (caster, target touchedSet) {
	caster, target = s.caster, s.target
	s.clearTouched()
	return caster, target
}
