// internal/recommendation/models.go
package recommendation

import "rank-boost/pkg/roster"

const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
)

// Request carries the two ranks the engine matches on.
type Request struct {
	CurrentLevel string `json:"currentLevel"`
	TargetLevel  string `json:"targetLevel"`
}

// Recommendation is the chosen provider and how it was chosen.
type Recommendation struct {
	Provider roster.Provider `json:"provider"`
	// Matched is false when no provider covered the requested range and the
	// highest-ranked provider was returned instead.
	Matched bool `json:"matched"`
}

func (r Recommendation) Outcome() string {
	if r.Matched {
		return OutcomeMatched
	}
	return OutcomeFallback
}

type candidate struct {
	provider roster.Provider
	minSkill int
	maxSkill int
	level    int
}
