// pkg/roster/schema.go
package roster

// Rank is a named tier of the ranked ladder (e.g. 黄金).
type Rank = string

// Hierarchy maps every known rank to its level, 1 being the lowest.
type Hierarchy map[Rank]int

// Level returns the level of a rank and whether the rank is known.
func (h Hierarchy) Level(r Rank) (int, bool) {
	lvl, ok := h[r]
	return lvl, ok
}

// Roster is the fixed set of providers orders are matched against.
type Roster struct {
	Version   string     `json:"version"`
	Hierarchy Hierarchy  `json:"hierarchy"`
	Providers []Provider `json:"providers"`
}

// Provider is a single member of the roster.
type Provider struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Level        Rank    `json:"level"`
	Type         string  `json:"type"`
	SkilledRanks []Rank  `json:"skilledRanks"`
	PriceFactor  float64 `json:"priceFactor"`
}

// DefaultHierarchy is the built-in rank ladder.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		"青铜": 1,
		"白银": 2,
		"黄金": 3,
		"铂金": 4,
		"钻石": 5,
		"大师": 6,
		"不朽": 7,
	}
}

// Default returns the built-in roster.
func Default() *Roster {
	return &Roster{
		Version:   "builtin",
		Hierarchy: DefaultHierarchy(),
		Providers: []Provider{
			{
				ID:           "player1",
				Name:         "闪电侠",
				Level:        "不朽",
				Type:         "突击型",
				SkilledRanks: []Rank{"铂金", "钻石", "大师", "不朽"},
				PriceFactor:  1.2,
			},
			{
				ID:           "player2",
				Name:         "鹰眼",
				Level:        "大师",
				Type:         "狙击型",
				SkilledRanks: []Rank{"黄金", "铂金", "钻石", "大师"},
				PriceFactor:  1.0,
			},
			{
				ID:           "player3",
				Name:         "堡垒",
				Level:        "大师",
				Type:         "防御型",
				SkilledRanks: []Rank{"白银", "黄金", "铂金", "钻石"},
				PriceFactor:  0.9,
			},
			{
				ID:           "player4",
				Name:         "神医",
				Level:        "钻石",
				Type:         "辅助型",
				SkilledRanks: []Rank{"青铜", "白银", "黄金", "铂金"},
				PriceFactor:  0.8,
			},
		},
	}
}
