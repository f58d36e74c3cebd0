// internal/recommendation/engine.go
package recommendation

import (
	"fmt"

	apperrors "rank-boost/internal/common/errors"
	"rank-boost/pkg/roster"
)

// Engine matches order requests against an immutable roster.
type Engine struct {
	hierarchy  roster.Hierarchy
	candidates []candidate
	fallback   int
}

// NewEngine validates the roster and precomputes each provider's skill range.
func NewEngine(r *roster.Roster) (*Engine, error) {
	if r == nil || len(r.Providers) == 0 {
		return nil, apperrors.NewRecommendationError("roster has no providers")
	}
	if err := r.Validate(); err != nil {
		return nil, apperrors.NewRecommendationError(err.Error())
	}

	hierarchy := make(roster.Hierarchy, len(r.Hierarchy))
	for rank, lvl := range r.Hierarchy {
		hierarchy[rank] = lvl
	}

	e := &Engine{hierarchy: hierarchy, candidates: make([]candidate, 0, len(r.Providers))}
	for _, p := range r.Providers {
		c := candidate{provider: clone(p), level: hierarchy[p.Level]}
		for j, rank := range p.SkilledRanks {
			lvl := hierarchy[rank]
			if j == 0 || lvl < c.minSkill {
				c.minSkill = lvl
			}
			if j == 0 || lvl > c.maxSkill {
				c.maxSkill = lvl
			}
		}
		e.candidates = append(e.candidates, c)
	}

	// first provider with the highest personal level
	for i, c := range e.candidates {
		if c.level > e.candidates[e.fallback].level {
			e.fallback = i
		}
	}
	return e, nil
}

// Recommend returns the cheapest provider whose skill floor is at or below the
// current rank and whose skill ceiling is at or above the target rank. Ties keep
// roster order. Only the two endpoints are checked, not every rank in between.
// An unknown rank fails every range check, so the request falls back to the
// provider with the highest personal level.
func (e *Engine) Recommend(req Request) Recommendation {
	current, currentOK := e.hierarchy.Level(req.CurrentLevel)
	target, targetOK := e.hierarchy.Level(req.TargetLevel)

	best := -1
	if currentOK && targetOK {
		for i, c := range e.candidates {
			if current < c.minSkill || target > c.maxSkill {
				continue
			}
			if best == -1 || c.provider.PriceFactor < e.candidates[best].provider.PriceFactor {
				best = i
			}
		}
	}

	if best == -1 {
		return Recommendation{Provider: clone(e.candidates[e.fallback].provider)}
	}
	return Recommendation{Provider: clone(e.candidates[best].provider), Matched: true}
}

// Providers lists the roster with each provider's skill range, in roster order.
func (e *Engine) Providers() []string {
	out := make([]string, 0, len(e.candidates))
	for _, c := range e.candidates {
		out = append(out, fmt.Sprintf("%s (%s) level=%d skill=%d..%d price=%.2f",
			c.provider.Name, c.provider.ID, c.level, c.minSkill, c.maxSkill, c.provider.PriceFactor))
	}
	return out
}

func clone(p roster.Provider) roster.Provider {
	p.SkilledRanks = append([]roster.Rank(nil), p.SkilledRanks...)
	return p
}
