package world

import (
	"go.uber.org/zap"
)

// NearestTarget finds the closest loaded, living actor to the caster
// within maxDist. Returns a zero handle when nothing qualifies.
// A paired animation partner is almost always loaded and very close, so
// a straight scan is enough.
func (s *State) NearestTarget(caster Handle, maxDist float64, logOps bool) Handle {
	c := s.Resolve(caster)
	if c == nil {
		return Handle{}
	}

	maxDistSqr := maxDist * maxDist
	var best *Actor
	bestSqr := maxDistSqr

	for _, a := range s.actors {
		if a.ID == c.ID || a.Dead || !a.Loaded {
			continue
		}
		dx := a.X - c.X
		dy := a.Y - c.Y
		dz := a.Z - c.Z
		d2 := dx*dx + dy*dy + dz*dz
		if d2 < bestSqr {
			bestSqr = d2
			best = a
		}
	}

	if best == nil {
		return Handle{}
	}
	if logOps {
		s.log.Info("target resolved",
			zap.String("caster", c.Name),
			zap.String("target", best.Name),
			zap.Float64("dist_sqr", bestSqr))
	}
	return Handle{ID: best.ID, Gen: best.Gen}
}
