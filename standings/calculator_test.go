package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

func intPtr(v int) *int { return &v }

func groupMatch(id, teamA, teamB, goalsA, goalsB int) *models.Match {
	return &models.Match{
		ID:        id,
		Stage:     models.StageGroup,
		SlotA:     models.Slot{TeamID: intPtr(teamA)},
		SlotB:     models.Slot{TeamID: intPtr(teamB)},
		ScoreA:    intPtr(goalsA),
		ScoreB:    intPtr(goalsB),
		Finalized: true,
	}
}

func teamIDs(rows []models.GroupStanding) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.TeamID
	}
	return ids
}

func TestCalculateAccumulatesResults(t *testing.T) {
	memberships := []models.GroupMembership{
		{TeamID: 1, Group: "A"}, {TeamID: 2, Group: "A"}, {TeamID: 3, Group: "A"},
	}
	matches := []*models.Match{
		groupMatch(10, 1, 2, 2, 0),
		groupMatch(11, 2, 3, 1, 1),
		groupMatch(12, 3, 1, 0, 3),
	}

	tables := Calculate(matches, memberships, nil, nil)
	require.Len(t, tables["A"], 3)

	rows := tables["A"]
	assert.Equal(t, []int{1, 2, 3}, teamIDs(rows))

	first := rows[0]
	assert.Equal(t, 2, first.Played)
	assert.Equal(t, 6, first.Points)
	assert.Equal(t, 2, first.Wins)
	assert.Equal(t, 5, first.GoalsFor)
	assert.Equal(t, 0, first.GoalsAgainst)
	assert.Equal(t, 5, first.GoalDiff)
}

func TestCalculatePointsPerMatchAndGoalDiff(t *testing.T) {
	memberships := []models.GroupMembership{
		{TeamID: 1, Group: "A"}, {TeamID: 2, Group: "A"}, {TeamID: 3, Group: "A"}, {TeamID: 4, Group: "A"},
	}
	matches := []*models.Match{
		groupMatch(1, 1, 2, 3, 3),
		groupMatch(2, 3, 4, 0, 1),
		groupMatch(3, 1, 3, 2, 1),
		groupMatch(4, 2, 4, 0, 0),
	}
	tables := Calculate(matches, memberships, nil, nil)

	total := 0
	for _, row := range tables["A"] {
		total += row.Points
		assert.Equal(t, row.GoalsFor-row.GoalsAgainst, row.GoalDiff)
	}
	// two draws (2 points each) and two decisive results (3 points each)
	assert.Equal(t, 10, total)
}

func TestCalculateIgnoresUnfinalizedAndEliminationMatches(t *testing.T) {
	memberships := []models.GroupMembership{{TeamID: 1, Group: "A"}, {TeamID: 2, Group: "A"}}
	pending := groupMatch(1, 1, 2, 5, 0)
	pending.Finalized = false
	knockout := groupMatch(2, 1, 2, 5, 0)
	knockout.Stage = models.StageElimination
	noScore := groupMatch(3, 1, 2, 0, 0)
	noScore.ScoreA = nil

	tables := Calculate([]*models.Match{pending, knockout, noScore}, memberships, nil, nil)
	for _, row := range tables["A"] {
		assert.Zero(t, row.Played)
		assert.Zero(t, row.Points)
	}
}

func TestCalculateFallbackGroup(t *testing.T) {
	matches := []*models.Match{groupMatch(1, 7, 8, 1, 0)}
	tables := Calculate(matches, []models.GroupMembership{{TeamID: 7, Group: "B"}}, nil, nil)

	require.Len(t, tables["B"], 1)
	require.Len(t, tables[FallbackGroup], 1)
	assert.Equal(t, 8, tables[FallbackGroup][0].TeamID)
}

func TestCalculateCardsOnlyFromCountedMatches(t *testing.T) {
	memberships := []models.GroupMembership{{TeamID: 1, Group: "A"}, {TeamID: 2, Group: "A"}}
	matches := []*models.Match{groupMatch(1, 1, 2, 1, 1)}
	events := []models.DisciplinaryEvent{
		{MatchID: 1, TeamID: 1, Type: models.CardRed},
		{MatchID: 1, TeamID: 2, Type: models.CardYellow},
		{MatchID: 1, TeamID: 2, Type: models.CardYellow},
		{MatchID: 99, TeamID: 2, Type: models.CardRed},
	}

	tables := Calculate(matches, memberships, events, nil)
	rows := tables["A"]
	// everything else is level, so fewer red cards decides
	assert.Equal(t, []int{2, 1}, teamIDs(rows))
	assert.Equal(t, 0, rows[0].RedCards)
	assert.Equal(t, 2, rows[0].YellowCards)
	assert.Equal(t, 1, rows[1].RedCards)
}

func TestCalculateFullTieKeepsDeclarationOrder(t *testing.T) {
	memberships := []models.GroupMembership{
		{TeamID: 9, Group: "A"}, {TeamID: 3, Group: "A"}, {TeamID: 5, Group: "A"},
	}
	for i := 0; i < 20; i++ {
		tables := Calculate(nil, memberships, nil, nil)
		assert.Equal(t, []int{9, 3, 5}, teamIDs(tables["A"]))
	}
}

func TestCalculateCustomChain(t *testing.T) {
	memberships := []models.GroupMembership{{TeamID: 1, Group: "A"}, {TeamID: 2, Group: "A"}, {TeamID: 3, Group: "A"}}
	matches := []*models.Match{
		groupMatch(1, 1, 3, 1, 0),
		groupMatch(2, 2, 3, 4, 0),
	}

	byPoints := Calculate(matches, memberships, nil, nil)
	assert.Equal(t, []int{2, 1, 3}, teamIDs(byPoints["A"]))

	chain, err := ParseCriteria("goals_against, points")
	require.NoError(t, err)
	byConceded := Calculate(matches, memberships, nil, chain)
	assert.Equal(t, []int{1, 2, 3}, teamIDs(byConceded["A"]))
}

func TestSortNeverFavoursLaterEntryOnEarlierCriterion(t *testing.T) {
	memberships := []models.GroupMembership{}
	for id := 1; id <= 6; id++ {
		memberships = append(memberships, models.GroupMembership{TeamID: id, Group: "A"})
	}
	matches := []*models.Match{
		groupMatch(1, 1, 2, 2, 2),
		groupMatch(2, 3, 4, 1, 0),
		groupMatch(3, 5, 6, 0, 3),
		groupMatch(4, 1, 3, 1, 0),
		groupMatch(5, 2, 5, 2, 1),
		groupMatch(6, 4, 6, 1, 1),
	}
	chain := DefaultCriteria()
	rows := Calculate(matches, memberships, nil, chain)["A"]

	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			for _, c := range chain {
				r := c.Compare(&rows[i], &rows[j])
				if r != 0 {
					assert.Negative(t, r, "criterion %s favours %d over %d", c.Name, rows[j].TeamID, rows[i].TeamID)
					break
				}
			}
		}
	}
}

func TestParseCriteria(t *testing.T) {
	chain, err := ParseCriteria("")
	require.NoError(t, err)
	assert.Equal(t, []string{"POINTS", "WINS", "GOAL_DIFF", "GOALS_FOR", "RED_CARDS", "YELLOW_CARDS"}, Names(chain))

	_, err = ParseCriteria("POINTS,HEAD_TO_HEAD")
	assert.ErrorIs(t, err, ErrUnknownCriterion)
}

func TestGeneralTable(t *testing.T) {
	tables := map[string][]models.GroupStanding{
		"A":           {{TeamID: 1, Points: 6}, {TeamID: 2, Points: 3}},
		"B":           {{TeamID: 3, Points: 9}, {TeamID: 4, Points: 3}},
		FallbackGroup: {{TeamID: 99, Points: 30}},
	}
	general := GeneralTable(tables, nil)
	assert.Equal(t, []int{3, 1, 2, 4}, teamIDs(general))
}

func TestTeamOrder(t *testing.T) {
	tables := map[string][]models.GroupStanding{"A": {{TeamID: 3}, {TeamID: 7}, {TeamID: 1}}}
	assert.Equal(t, map[string][]int{"A": {3, 7, 1}}, TeamOrder(tables))
}

func TestCalculateNormalizesGroupLabels(t *testing.T) {
	memberships := []models.GroupMembership{
		{TeamID: 1, Group: "a"}, {TeamID: 2, Group: " A "}, {TeamID: 3, Group: "Grupo  b"},
	}
	tables := Calculate([]*models.Match{groupMatch(1, 1, 2, 0, 1)}, memberships, nil, nil)

	assert.Equal(t, []int{2, 1}, teamIDs(tables["A"]))
	assert.Equal(t, []int{3}, teamIDs(tables["GRUPO B"]))
	assert.NotContains(t, tables, "a")
}

func TestFinishedGroups(t *testing.T) {
	memberships := []models.GroupMembership{
		{TeamID: 1, Group: "A"}, {TeamID: 2, Group: "A"}, {TeamID: 3, Group: "A"},
		{TeamID: 4, Group: "b"}, {TeamID: 5, Group: "B"},
		{TeamID: 6, Group: "C"}, {TeamID: 7, Group: "C"},
	}
	live := groupMatch(3, 4, 5, 1, 0)
	live.Finalized = false

	t.Run("nothing played", func(t *testing.T) {
		got := FinishedGroups(nil, memberships)
		assert.Equal(t, map[string]bool{"A": false, "B": false, "C": false}, got)
	})

	t.Run("mixed progress", func(t *testing.T) {
		matches := []*models.Match{
			groupMatch(1, 1, 2, 1, 0),
			groupMatch(2, 2, 3, 0, 0),
			live,
			groupMatch(4, 6, 7, 2, 2),
			groupMatch(5, 8, 9, 1, 0),
		}
		got := FinishedGroups(matches, memberships)

		assert.True(t, got["A"])
		assert.False(t, got["B"], "a group match is still live")
		assert.True(t, got["C"])
		assert.True(t, got[FallbackGroup], "teams without membership fall back to U")
	})

	t.Run("member without a match", func(t *testing.T) {
		got := FinishedGroups([]*models.Match{groupMatch(1, 1, 2, 1, 0)}, memberships)
		assert.False(t, got["A"], "team 3 has not played")
	})
}
