// Package standings aggregates finalized group-stage results into ranked tables.
package standings

import (
	"sort"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

// FallbackGroup is assigned to teams that play group matches without a membership row.
const FallbackGroup = "U"

const (
	pointsWin  = 3
	pointsDraw = 1
)

// Calculate builds per-group tables from finalized GROUP matches. Non-finalized,
// non-group or score-less matches are ignored. Cards only count when they belong
// to one of the counted matches. Ties across the whole chain keep membership
// declaration order.
func Calculate(matches []*models.Match, memberships []models.GroupMembership, events []models.DisciplinaryEvent, criteria []Criterion) map[string][]models.GroupStanding {
	if len(criteria) == 0 {
		criteria = DefaultCriteria()
	}

	index := make(map[int]*models.GroupStanding)
	order := make([]int, 0, len(memberships))

	entry := func(teamID int) *models.GroupStanding {
		if s, ok := index[teamID]; ok {
			return s
		}
		s := &models.GroupStanding{TeamID: teamID, Group: FallbackGroup}
		index[teamID] = s
		order = append(order, teamID)
		return s
	}

	for _, m := range memberships {
		s := entry(m.TeamID)
		if label := models.NormalizeGroupLabel(m.Group); label != "" {
			s.Group = label
		}
	}

	counted := make(map[int]struct{})
	for _, match := range matches {
		if !isCountable(match) {
			continue
		}
		counted[match.ID] = struct{}{}

		a := entry(*match.SlotA.TeamID)
		b := entry(*match.SlotB.TeamID)
		goalsA, goalsB := *match.ScoreA, *match.ScoreB

		a.Played++
		b.Played++
		a.GoalsFor += goalsA
		a.GoalsAgainst += goalsB
		b.GoalsFor += goalsB
		b.GoalsAgainst += goalsA

		switch {
		case goalsA > goalsB:
			a.Wins++
			a.Points += pointsWin
			b.Losses++
		case goalsB > goalsA:
			b.Wins++
			b.Points += pointsWin
			a.Losses++
		default:
			a.Draws++
			b.Draws++
			a.Points += pointsDraw
			b.Points += pointsDraw
		}
	}

	for _, ev := range events {
		if _, ok := counted[ev.MatchID]; !ok {
			continue
		}
		s, ok := index[ev.TeamID]
		if !ok {
			continue
		}
		switch ev.Type {
		case models.CardYellow:
			s.YellowCards++
		case models.CardRed:
			s.RedCards++
		}
	}

	tables := make(map[string][]models.GroupStanding)
	for _, teamID := range order {
		s := index[teamID]
		s.GoalDiff = s.GoalsFor - s.GoalsAgainst
		tables[s.Group] = append(tables[s.Group], *s)
	}
	for group := range tables {
		Sort(tables[group], criteria)
	}
	return tables
}

// Sort orders a table in place by the chain, keeping input order on full ties.
func Sort(table []models.GroupStanding, criteria []Criterion) {
	sort.SliceStable(table, func(i, j int) bool {
		return compareChain(&table[i], &table[j], criteria) < 0
	})
}

func compareChain(a, b *models.GroupStanding, criteria []Criterion) int {
	for _, c := range criteria {
		if r := c.Compare(a, b); r != 0 {
			return r
		}
	}
	return 0
}

func groupLabel(raw string) string {
	if label := models.NormalizeGroupLabel(raw); label != "" {
		return label
	}
	return FallbackGroup
}

// FinishedGroups reports for every group whether its ranking is final: the
// group has played at least one GROUP match, every GROUP match involving one of
// its teams is finalized and every member has played.
func FinishedGroups(matches []*models.Match, memberships []models.GroupMembership) map[string]bool {
	groupOf := make(map[int]string, len(memberships))
	for _, m := range memberships {
		label, seen := groupOf[m.TeamID]
		if !seen || models.NormalizeGroupLabel(m.Group) != "" {
			label = groupLabel(m.Group)
		}
		groupOf[m.TeamID] = label
	}
	members := make(map[string][]int)
	for teamID, label := range groupOf {
		members[label] = append(members[label], teamID)
	}

	pending := make(map[string]bool)
	played := make(map[int]bool)
	for _, match := range matches {
		if match == nil || match.Stage != models.StageGroup {
			continue
		}
		for _, teamID := range []*int{match.SlotA.TeamID, match.SlotB.TeamID} {
			if teamID == nil {
				continue
			}
			label, ok := groupOf[*teamID]
			if !ok {
				label = FallbackGroup
				groupOf[*teamID] = label
				members[label] = append(members[label], *teamID)
			}
			if match.Finalized {
				played[*teamID] = true
			} else {
				pending[label] = true
			}
		}
	}

	out := make(map[string]bool, len(members))
	for label, teamIDs := range members {
		finished := !pending[label]
		for _, id := range teamIDs {
			if !played[id] {
				finished = false
				break
			}
		}
		out[label] = finished
	}
	return out
}

func isCountable(m *models.Match) bool {
	return m != nil &&
		m.Stage == models.StageGroup &&
		m.Finalized &&
		m.SlotA.TeamID != nil && m.SlotB.TeamID != nil &&
		m.ScoreA != nil && m.ScoreB != nil
}

// GeneralTable pools all groups into one ranking: group position first, then the
// criteria chain between teams holding the same position, then group label.
// The fallback group is left out since it has no seeding meaning.
func GeneralTable(tables map[string][]models.GroupStanding, criteria []Criterion) []models.GroupStanding {
	if len(criteria) == 0 {
		criteria = DefaultCriteria()
	}
	labels := make([]string, 0, len(tables))
	for label := range tables {
		if label == FallbackGroup {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	type seeded struct {
		position int
		row      models.GroupStanding
	}
	pool := make([]seeded, 0)
	for _, label := range labels {
		for pos, row := range tables[label] {
			pool = append(pool, seeded{position: pos, row: row})
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].position != pool[j].position {
			return pool[i].position < pool[j].position
		}
		return compareChain(&pool[i].row, &pool[j].row, criteria) < 0
	})

	out := make([]models.GroupStanding, len(pool))
	for i, s := range pool {
		out[i] = s.row
	}
	return out
}

// TeamOrder flattens tables into group → ordered team ids, the shape rules resolve against.
func TeamOrder(tables map[string][]models.GroupStanding) map[string][]int {
	out := make(map[string][]int, len(tables))
	for group, rows := range tables {
		ids := make([]int, len(rows))
		for i, r := range rows {
			ids[i] = r.TeamID
		}
		out[group] = ids
	}
	return out
}
