package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/standings"
)

// ResolveReport summarises one progression pass.
type ResolveReport struct {
	RunID         string   `json:"run_id"`
	UpdatedCount  int      `json:"updated_count"`
	ClearedCount  int      `json:"cleared_count"`
	UnresolvedLog []string `json:"unresolved_log"`
	ByeLog        []string `json:"bye_log"`
}

// Progressed reports whether the pass changed any slot.
func (r *ResolveReport) Progressed() bool {
	return r.UpdatedCount > 0 || r.ClearedCount > 0
}

type ProgressionService interface {
	// ResolvePending fills every symbolic slot whose rule can be resolved right now.
	ResolvePending(ctx context.Context, tournamentID int) (*ResolveReport, error)
}

type progressionService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	membershipRepo repositories.GroupMembershipRepository
	eventRepo      repositories.DisciplinaryEventRepository
	locker         TournamentLocker
	notifier       TournamentNotifier
	snapshots      SnapshotService
	logger         *slog.Logger
}

type ProgressionDeps struct {
	TournamentRepo repositories.TournamentRepository
	MatchRepo      repositories.MatchRepository
	MembershipRepo repositories.GroupMembershipRepository
	EventRepo      repositories.DisciplinaryEventRepository
	Locker         TournamentLocker
	Notifier       TournamentNotifier
	Snapshots      SnapshotService
	Logger         *slog.Logger
}

func NewProgressionService(deps ProgressionDeps) ProgressionService {
	locker := deps.Locker
	if locker == nil {
		locker = NoopLocker{}
	}
	return &progressionService{
		tournamentRepo: deps.TournamentRepo,
		matchRepo:      deps.MatchRepo,
		membershipRepo: deps.MembershipRepo,
		eventRepo:      deps.EventRepo,
		locker:         locker,
		notifier:       notifierOrNoop(deps.Notifier),
		snapshots:      deps.Snapshots,
		logger:         loggerOrDefault(deps.Logger),
	}
}

func (s *progressionService) ResolvePending(ctx context.Context, tournamentID int) (*ResolveReport, error) {
	unlock, err := s.locker.Lock(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uErr := unlock(context.WithoutCancel(ctx)); uErr != nil {
			s.logger.WarnContext(ctx, "Failed to release progression lock",
				slog.Int("tournament_id", tournamentID), slog.Any("error", uErr))
		}
	}()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	if tournament.Closed() {
		return nil, ErrTournamentClosed
	}
	criteria, err := tournamentCriteria(tournament)
	if err != nil {
		return nil, err
	}

	state, err := loadTournamentState(ctx, tournamentID, s.matchRepo, s.membershipRepo, s.eventRepo)
	if err != nil {
		return nil, err
	}

	report := &ResolveReport{
		RunID:         uuid.NewString(),
		UnresolvedLog: []string{},
		ByeLog:        []string{},
	}
	log := s.logger.With(slog.Int("tournament_id", tournamentID), slog.String("run_id", report.RunID))

	tables := standings.Calculate(state.matches, state.memberships, state.events, criteria)
	unfinished := unfinishedGroups(standings.FinishedGroups(state.matches, state.memberships))
	pass := newResolutionPass(state.matches, rankedTeamIDs(tables, criteria), unfinished)

	for _, m := range state.matches {
		if m.BothConcrete() {
			continue
		}
		for _, side := range []models.SlotSide{models.SideA, models.SideB} {
			s.resolveSlot(ctx, log, pass, m, side, report)
		}
	}

	log.InfoContext(ctx, "Progression pass finished",
		slog.Int("updated", report.UpdatedCount),
		slog.Int("cleared", report.ClearedCount),
		slog.Int("unresolved", len(report.UnresolvedLog)),
		slog.Int("byes", len(report.ByeLog)))

	if report.Progressed() {
		s.notifier.PublishTournamentEvent(tournamentID, brackets.MessageSlotsResolved, report)
		if s.snapshots != nil {
			if _, err := s.snapshots.Publish(ctx, tournamentID, report.RunID); err != nil {
				log.WarnContext(ctx, "Failed to publish progression snapshot", slog.Any("error", err))
			}
		}
	}

	return report, nil
}

func (s *progressionService) resolveSlot(ctx context.Context, log *slog.Logger, pass *resolutionPass, m *models.Match, side models.SlotSide, report *ResolveReport) {
	slot := m.Slot(side)
	if slot.State() != models.SlotSymbolic {
		return
	}
	attrs := []any{slog.Int("match_id", m.ID), slog.String("side", string(side))}

	rule := brackets.ParseRule(*slot.Rule)
	if _, ok := rule.(brackets.ClearRule); ok {
		if err := s.matchRepo.ClearSlotRule(ctx, m.ID, side); err != nil {
			log.ErrorContext(ctx, "Failed to clear slot rule", append(attrs, slog.Any("error", err))...)
			report.UnresolvedLog = append(report.UnresolvedLog, fmt.Sprintf("match %d slot %s: clear failed: %v", m.ID, side, err))
			return
		}
		report.ClearedCount++
		return
	}

	res := brackets.Resolve(rule, pass.contextFor(m))
	switch res.Status {
	case brackets.Resolved:
		err := s.matchRepo.UpdateSlotTeam(ctx, m.ID, side, res.TeamID)
		switch {
		case errors.Is(err, repositories.ErrSlotAlreadyAssigned):
			log.InfoContext(ctx, "Slot already assigned by another writer", attrs...)
		case err != nil:
			log.ErrorContext(ctx, "Failed to write resolved slot", append(attrs, slog.Int("team_id", res.TeamID), slog.Any("error", err))...)
			report.UnresolvedLog = append(report.UnresolvedLog, fmt.Sprintf("match %d slot %s: write failed: %v", m.ID, side, err))
		default:
			report.UpdatedCount++
			pass.assign(m.ID, side, res.TeamID)
		}
	case brackets.Bye:
		report.ByeLog = append(report.ByeLog, fmt.Sprintf("match %d slot %s: %s", m.ID, side, res.Reason))
		pass.markBye(m.ID, side)
	default:
		report.UnresolvedLog = append(report.UnresolvedLog, fmt.Sprintf("match %d slot %s (%s): %s", m.ID, side, *slot.Rule, res.Reason))
	}
}

// resolutionPass holds the resolver context of one pass. Assignments made during the
// pass are folded back in, so a walkover resolved early can feed a later round.
type resolutionPass struct {
	ctx          brackets.Context
	indexByMatch map[int]int
}

func newResolutionPass(matches []*models.Match, ranked map[string][]int, unfinished map[string]bool) *resolutionPass {
	p := &resolutionPass{
		ctx: brackets.Context{
			Standings:         ranked,
			Unfinished:        unfinished,
			OutcomesByMatchID: make(map[int]brackets.Outcome),
			OutcomesByIndex:   make(map[int]brackets.Outcome),
			CurrentIndex:      -1,
		},
		indexByMatch: make(map[int]int),
	}

	// matches arrive in creation order, which is the positional order of the bracket
	index := 0
	for _, m := range matches {
		if m.Stage != models.StageElimination {
			continue
		}
		p.indexByMatch[m.ID] = index
		out := outcomeOf(m)
		p.ctx.OutcomesByMatchID[m.ID] = out
		p.ctx.OutcomesByIndex[index] = out
		index++
	}
	return p
}

func outcomeOf(m *models.Match) brackets.Outcome {
	return brackets.Outcome{
		MatchID:   m.ID,
		TeamA:     m.SlotA.TeamID,
		TeamB:     m.SlotB.TeamID,
		ByeA:      isByeSlot(m.SlotA),
		ByeB:      isByeSlot(m.SlotB),
		ScoreA:    m.ScoreA,
		ScoreB:    m.ScoreB,
		PenaltyA:  m.PenaltyA,
		PenaltyB:  m.PenaltyB,
		Finalized: m.Finalized,
	}
}

func isByeSlot(s models.Slot) bool {
	if s.State() != models.SlotSymbolic {
		return false
	}
	_, ok := brackets.ParseRule(*s.Rule).(brackets.ByeRule)
	return ok
}

func (p *resolutionPass) contextFor(m *models.Match) *brackets.Context {
	p.ctx.CurrentMatchID = m.ID
	p.ctx.CurrentIndex = -1
	if idx, ok := p.indexByMatch[m.ID]; ok {
		p.ctx.CurrentIndex = idx
	}
	return &p.ctx
}

func (p *resolutionPass) update(matchID int, fn func(*brackets.Outcome)) {
	out, ok := p.ctx.OutcomesByMatchID[matchID]
	if !ok {
		return
	}
	fn(&out)
	p.ctx.OutcomesByMatchID[matchID] = out
	p.ctx.OutcomesByIndex[p.indexByMatch[matchID]] = out
}

func (p *resolutionPass) assign(matchID int, side models.SlotSide, teamID int) {
	p.update(matchID, func(o *brackets.Outcome) {
		id := teamID
		if side == models.SideA {
			o.TeamA = &id
		} else {
			o.TeamB = &id
		}
	})
}

func (p *resolutionPass) markBye(matchID int, side models.SlotSide) {
	p.update(matchID, func(o *brackets.Outcome) {
		if side == models.SideA {
			o.ByeA = true
		} else {
			o.ByeB = true
		}
	})
}
