package models

// StageKind различает групповой этап и плей-офф.
type StageKind string

const (
	StageGroup       StageKind = "GROUP"
	StageElimination StageKind = "ELIMINATION"
)

// SlotSide identifies one of the two team positions of a match.
type SlotSide string

const (
	SideA SlotSide = "A"
	SideB SlotSide = "B"
)

// Valid reports whether the side is A or B.
func (s SlotSide) Valid() bool {
	return s == SideA || s == SideB
}

type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotSymbolic
	SlotConcrete
)

func (s SlotState) String() string {
	switch s {
	case SlotSymbolic:
		return "symbolic"
	case SlotConcrete:
		return "concrete"
	default:
		return "empty"
	}
}

// Slot holds either a concrete team or a placeholder rule. A concrete team wins
// over a leftover rule, so a slot is Concrete as soon as TeamID is set.
type Slot struct {
	TeamID *int    `json:"team_id,omitempty" db:"team_id"`
	Rule   *string `json:"rule,omitempty" db:"rule"`
}

func (s Slot) State() SlotState {
	if s.TeamID != nil {
		return SlotConcrete
	}
	if s.Rule != nil && *s.Rule != "" {
		return SlotSymbolic
	}
	return SlotEmpty
}

type Match struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Stage        StageKind `json:"stage" db:"stage"`
	Round        int       `json:"round" db:"round"`
	Phase        *string   `json:"phase,omitempty" db:"phase"`
	Observation  *string   `json:"observation,omitempty" db:"observation"`

	SlotA Slot `json:"slot_a"`
	SlotB Slot `json:"slot_b"`

	ScoreA   *int `json:"score_a,omitempty" db:"score_a"`
	ScoreB   *int `json:"score_b,omitempty" db:"score_b"`
	PenaltyA *int `json:"penalty_a,omitempty" db:"penalty_a"`
	PenaltyB *int `json:"penalty_b,omitempty" db:"penalty_b"`

	Finalized bool `json:"finalized" db:"finalized"`
}

// Slot returns the slot on the given side.
func (m *Match) Slot(side SlotSide) Slot {
	if side == SideB {
		return m.SlotB
	}
	return m.SlotA
}

// BothConcrete reports whether both teams of the match are already known.
func (m *Match) BothConcrete() bool {
	return m.SlotA.State() == SlotConcrete && m.SlotB.State() == SlotConcrete
}

// MatchResult is the live-scoring payload recorded against a match.
type MatchResult struct {
	ScoreA   int  `json:"score_a"`
	ScoreB   int  `json:"score_b"`
	PenaltyA *int `json:"penalty_a,omitempty"`
	PenaltyB *int `json:"penalty_b,omitempty"`
	Finalize bool `json:"finalize"`
}
