// pkg/roster/registry.go
package roster

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a roster file. An empty path yields the built-in roster.
// A file without a hierarchy inherits the built-in one.
func Load(path string) (*Roster, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}

	var r Roster
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	if len(r.Hierarchy) == 0 {
		r.Hierarchy = DefaultHierarchy()
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes the roster as indented JSON.
func Save(path string, r *Roster) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the invariants every consumer of the roster relies on.
func (r *Roster) Validate() error {
	if len(r.Providers) == 0 {
		return fmt.Errorf("roster has no providers")
	}
	if len(r.Hierarchy) == 0 {
		return fmt.Errorf("roster has no rank hierarchy")
	}

	seen := make(map[string]struct{}, len(r.Providers))
	for i, p := range r.Providers {
		if p.ID == "" {
			return fmt.Errorf("provider[%d]: id is required", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("provider %s: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Name == "" {
			return fmt.Errorf("provider %s: name is required", p.ID)
		}
		if _, ok := r.Hierarchy.Level(p.Level); !ok {
			return fmt.Errorf("provider %s: unknown level %q", p.ID, p.Level)
		}
		if len(p.SkilledRanks) == 0 {
			return fmt.Errorf("provider %s: skilledRanks must not be empty", p.ID)
		}
		for _, rank := range p.SkilledRanks {
			if _, ok := r.Hierarchy.Level(rank); !ok {
				return fmt.Errorf("provider %s: unknown skilled rank %q", p.ID, rank)
			}
		}
		if p.PriceFactor <= 0 {
			return fmt.Errorf("provider %s: priceFactor must be positive", p.ID)
		}
	}
	return nil
}
