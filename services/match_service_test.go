package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

func newMatchFixture(matches ...*models.Match) (MatchService, *fakeMatchRepo, *recordingNotifier) {
	repo := newFakeMatchRepo(matches...)
	notifier := &recordingNotifier{}
	svc := NewMatchService(
		&fakeTournamentRepo{tournaments: map[int]*models.Tournament{1: {ID: 1}}},
		repo, notifier, nil,
	)
	return svc, repo, notifier
}

func TestRecordResultFinalizesAndNotifies(t *testing.T) {
	m := elimMatch(10, "RANKING|A:0", "RANKING|B:0")
	m.SlotA.TeamID, m.SlotB.TeamID = intPtr(1), intPtr(2)
	svc, _, notifier := newMatchFixture(m)

	updated, err := svc.RecordResult(context.Background(), 10, models.MatchResult{
		ScoreA: 1, ScoreB: 1, PenaltyA: intPtr(5), PenaltyB: intPtr(4), Finalize: true,
	})
	require.NoError(t, err)

	assert.True(t, updated.Finalized)
	assert.Equal(t, 5, *updated.PenaltyA)
	assert.Equal(t, []string{brackets.MessageMatchUpdated}, notifier.types())

	_, err = svc.RecordResult(context.Background(), 10, models.MatchResult{ScoreA: 2})
	assert.ErrorIs(t, err, ErrMatchAlreadyFinalized)
}

func TestRecordResultValidation(t *testing.T) {
	m := elimMatch(10, "RANKING|A:0", "RANKING|B:0")
	svc, _, _ := newMatchFixture(m)
	ctx := context.Background()

	_, err := svc.RecordResult(ctx, 10, models.MatchResult{ScoreA: -1})
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = svc.RecordResult(ctx, 10, models.MatchResult{PenaltyA: intPtr(3)})
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = svc.RecordResult(ctx, 10, models.MatchResult{ScoreA: 1, Finalize: true})
	assert.ErrorIs(t, err, ErrTeamsNotAssigned)

	_, err = svc.RecordResult(ctx, 99, models.MatchResult{})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	live, err := svc.RecordResult(ctx, 10, models.MatchResult{ScoreA: 1})
	require.NoError(t, err)
	assert.False(t, live.Finalized)
}

func TestSetSlotRule(t *testing.T) {
	m := elimMatch(10, "RANKING|A:0", "RANKING|B:0")
	m.SlotA.TeamID = intPtr(5)
	svc, _, notifier := newMatchFixture(m, elimMatch(11, "", ""))
	ctx := context.Background()

	updated, err := svc.SetSlotRule(ctx, 10, models.SideA, " jogo_venc | index:3 ")
	require.NoError(t, err)
	assert.Nil(t, updated.SlotA.TeamID, "an organizer edit replaces the team")
	assert.Equal(t, "JOGO_VENC|INDEX:3", *updated.SlotA.Rule)

	cleared, err := svc.SetSlotRule(ctx, 10, models.SideB, "LIMPAR")
	require.NoError(t, err)
	assert.Equal(t, models.SlotEmpty, cleared.SlotB.State())

	_, err = svc.SetSlotRule(ctx, 10, models.SideA, "JOGO_VENC|10")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = svc.SetSlotRule(ctx, 10, models.SideA, "QUALQUER")
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = svc.SetSlotRule(ctx, 10, models.SlotSide("C"), "LIMPAR")
	assert.ErrorIs(t, err, ErrInvalidSlotSide)

	_, err = svc.SetSlotRule(ctx, 77, models.SideA, "BYE")
	assert.ErrorIs(t, err, ErrMatchNotFound)

	assert.Len(t, notifier.types(), 2)
}

func TestSetSlotRuleRejectsPositionalSelfReference(t *testing.T) {
	live := groupMatch(1, 1, 2, 0, 0)
	live.Finalized = false
	svc, repo, _ := newMatchFixture(
		live,
		elimMatch(10, "RANKING|A:0", "RANKING|B:0"),
		elimMatch(11, "", ""),
	)
	ctx := context.Background()

	// match 11 is the second elimination match, so it owns INDEX:1
	_, err := svc.SetSlotRule(ctx, 11, models.SideA, "JOGO_PERD|INDEX:1")
	assert.ErrorIs(t, err, ErrInvalidRule)
	m, err := repo.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "", *m.SlotA.Rule, "rejected rule is not stored")

	updated, err := svc.SetSlotRule(ctx, 11, models.SideA, "JOGO_VENC|INDEX:0")
	require.NoError(t, err)
	assert.Equal(t, "JOGO_VENC|INDEX:0", *updated.SlotA.Rule)

	// group matches hold no positional index
	_, err = svc.SetSlotRule(ctx, 1, models.SideA, "JOGO_VENC|INDEX:0")
	assert.NoError(t, err)
}

func TestListMatches(t *testing.T) {
	svc, _, _ := newMatchFixture(groupMatch(1, 1, 2, 0, 0), elimMatch(10, "BYE", "BYE"))
	ctx := context.Background()

	all, err := svc.ListMatches(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	stage := models.StageElimination
	elim, err := svc.ListMatches(ctx, 1, &stage)
	require.NoError(t, err)
	require.Len(t, elim, 1)
	assert.Equal(t, 10, elim[0].ID)

	_, err = svc.ListMatches(ctx, 2, nil)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
