package services

import (
	"context"
	"sort"
	"sync"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
)

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

// fakeMatchRepo keeps matches in memory and mirrors the conditional writes of the
// postgres repository.
type fakeMatchRepo struct {
	mu          sync.Mutex
	matches     map[int]*models.Match
	nextID      int
	failWrites  map[int]error
	writes      int
	clears      int
	listErr     error
	insertCalls int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	f := &fakeMatchRepo{matches: map[int]*models.Match{}, failWrites: map[int]error{}, nextID: 1}
	for _, m := range matches {
		f.matches[m.ID] = m
		if m.ID >= f.nextID {
			f.nextID = m.ID + 1
		}
	}
	return f
}

func (f *fakeMatchRepo) clone(m *models.Match) *models.Match {
	c := *m
	return &c
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return f.clone(m), nil
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, stage *models.StageKind) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Match{}
	for _, m := range f.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if stage != nil && m.Stage != *stage {
			continue
		}
		out = append(out, f.clone(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMatchRepo) slot(m *models.Match, side models.SlotSide) *models.Slot {
	if side == models.SideA {
		return &m.SlotA
	}
	return &m.SlotB
}

func (f *fakeMatchRepo) UpdateSlotTeam(_ context.Context, matchID int, side models.SlotSide, teamID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failWrites[matchID]; ok {
		return err
	}
	m, ok := f.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	slot := f.slot(m, side)
	if slot.TeamID != nil {
		return repositories.ErrSlotAlreadyAssigned
	}
	id := teamID
	slot.TeamID = &id
	f.writes++
	return nil
}

func (f *fakeMatchRepo) ClearSlotRule(_ context.Context, matchID int, side models.SlotSide) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	f.slot(m, side).Rule = nil
	f.clears++
	return nil
}

func (f *fakeMatchRepo) SetSlotRule(_ context.Context, matchID int, side models.SlotSide, rule *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	slot := f.slot(m, side)
	slot.Rule = rule
	slot.TeamID = nil
	return nil
}

func (f *fakeMatchRepo) RecordResult(_ context.Context, matchID int, res models.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Finalized {
		return repositories.ErrMatchAlreadyFinalized
	}
	a, b := res.ScoreA, res.ScoreB
	m.ScoreA, m.ScoreB = &a, &b
	m.PenaltyA, m.PenaltyB = res.PenaltyA, res.PenaltyB
	m.Finalized = res.Finalize
	return nil
}

func (f *fakeMatchRepo) InsertBracket(_ context.Context, tournamentID int, entries []models.BracketTemplateEntry) ([]*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	created := make([]*models.Match, 0, len(entries))
	for _, e := range entries {
		phase, obs, ra, rb := e.Phase, e.Observation, e.RuleA, e.RuleB
		m := &models.Match{
			ID:           f.nextID,
			TournamentID: tournamentID,
			Stage:        models.StageElimination,
			Round:        e.Round,
			Phase:        &phase,
			Observation:  &obs,
			SlotA:        models.Slot{Rule: &ra},
			SlotB:        models.Slot{Rule: &rb},
		}
		f.nextID++
		f.matches[m.ID] = m
		created = append(created, f.clone(m))
	}
	return created, nil
}

type fakeMembershipRepo struct {
	memberships []models.GroupMembership
}

func (f *fakeMembershipRepo) ListByTournament(context.Context, int) ([]models.GroupMembership, error) {
	return f.memberships, nil
}

type fakeEventRepo struct {
	events []models.DisciplinaryEvent
	calls  int
}

func (f *fakeEventRepo) ListByMatches(_ context.Context, matchIDs []int, _ []models.CardType) ([]models.DisciplinaryEvent, error) {
	f.calls++
	wanted := map[int]bool{}
	for _, id := range matchIDs {
		wanted[id] = true
	}
	out := []models.DisciplinaryEvent{}
	for _, e := range f.events {
		if wanted[e.MatchID] {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTeamRepo struct {
	teams []models.Team
}

func (f *fakeTeamRepo) ListByTournament(context.Context, int) ([]models.Team, error) {
	return f.teams, nil
}

type publishedEvent struct {
	tournamentID int
	messageType  string
	payload      interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) PublishTournamentEvent(tournamentID int, messageType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{tournamentID, messageType, payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.messageType
	}
	return out
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func groupMatch(id, teamA, teamB, scoreA, scoreB int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: 1,
		Stage:        models.StageGroup,
		Round:        1,
		SlotA:        models.Slot{TeamID: intPtr(teamA)},
		SlotB:        models.Slot{TeamID: intPtr(teamB)},
		ScoreA:       intPtr(scoreA),
		ScoreB:       intPtr(scoreB),
		Finalized:    true,
	}
}

func elimMatch(id int, ruleA, ruleB string) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: 1,
		Stage:        models.StageElimination,
		Round:        1,
		SlotA:        models.Slot{Rule: strPtr(ruleA)},
		SlotB:        models.Slot{Rule: strPtr(ruleB)},
	}
}
