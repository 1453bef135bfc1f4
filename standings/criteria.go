package standings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

var ErrUnknownCriterion = errors.New("unknown standings criterion")

// Criterion is one tie-break step. Descending criteria rank the larger value first.
type Criterion struct {
	Name       string
	Descending bool
	value      func(s *models.GroupStanding) int
}

var (
	Points       = Criterion{Name: "POINTS", Descending: true, value: func(s *models.GroupStanding) int { return s.Points }}
	Wins         = Criterion{Name: "WINS", Descending: true, value: func(s *models.GroupStanding) int { return s.Wins }}
	Draws        = Criterion{Name: "DRAWS", Descending: true, value: func(s *models.GroupStanding) int { return s.Draws }}
	GoalDiff     = Criterion{Name: "GOAL_DIFF", Descending: true, value: func(s *models.GroupStanding) int { return s.GoalDiff }}
	GoalsFor     = Criterion{Name: "GOALS_FOR", Descending: true, value: func(s *models.GroupStanding) int { return s.GoalsFor }}
	GoalsAgainst = Criterion{Name: "GOALS_AGAINST", Descending: false, value: func(s *models.GroupStanding) int { return s.GoalsAgainst }}
	RedCards     = Criterion{Name: "RED_CARDS", Descending: false, value: func(s *models.GroupStanding) int { return s.RedCards }}
	YellowCards  = Criterion{Name: "YELLOW_CARDS", Descending: false, value: func(s *models.GroupStanding) int { return s.YellowCards }}
)

var byName = map[string]Criterion{
	Points.Name:       Points,
	Wins.Name:         Wins,
	Draws.Name:        Draws,
	GoalDiff.Name:     GoalDiff,
	GoalsFor.Name:     GoalsFor,
	GoalsAgainst.Name: GoalsAgainst,
	RedCards.Name:     RedCards,
	YellowCards.Name:  YellowCards,
}

// DefaultCriteria returns a fresh copy of the default tie-break chain.
func DefaultCriteria() []Criterion {
	return []Criterion{Points, Wins, GoalDiff, GoalsFor, RedCards, YellowCards}
}

// Compare returns a negative number when a ranks above b under this criterion,
// positive when b ranks above a and zero on a tie.
func (c Criterion) Compare(a, b *models.GroupStanding) int {
	va, vb := c.value(a), c.value(b)
	if va == vb {
		return 0
	}
	if c.Descending {
		if va > vb {
			return -1
		}
		return 1
	}
	if va < vb {
		return -1
	}
	return 1
}

// ParseCriteria parses a comma separated chain such as "POINTS,GOAL_DIFF".
// An empty string yields the default chain.
func ParseCriteria(raw string) ([]Criterion, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCriteria(), nil
	}
	parts := strings.Split(raw, ",")
	chain := make([]Criterion, 0, len(parts))
	for _, p := range parts {
		name := strings.ToUpper(strings.TrimSpace(p))
		if name == "" {
			continue
		}
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
		}
		chain = append(chain, c)
	}
	if len(chain) == 0 {
		return DefaultCriteria(), nil
	}
	return chain, nil
}

// Names renders a chain back into its textual form.
func Names(chain []Criterion) []string {
	out := make([]string, len(chain))
	for i, c := range chain {
		out[i] = c.Name
	}
	return out
}
