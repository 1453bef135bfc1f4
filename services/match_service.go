package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
)

type MatchService interface {
	ListMatches(ctx context.Context, tournamentID int, stage *models.StageKind) ([]*models.Match, error)
	// RecordResult stores live scores; Finalize locks the result for standings and progression.
	RecordResult(ctx context.Context, matchID int, result models.MatchResult) (*models.Match, error)
	// SetSlotRule replaces the rule of a slot. LIMPAR empties the slot.
	SetSlotRule(ctx context.Context, matchID int, side models.SlotSide, rule string) (*models.Match, error)
}

type matchService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	notifier       TournamentNotifier
	logger         *slog.Logger
}

func NewMatchService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	notifier TournamentNotifier,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		notifier:       notifierOrNoop(notifier),
		logger:         loggerOrDefault(logger),
	}
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, stage *models.StageKind) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, stage)
	if err != nil {
		return nil, handleRepositoryError("list matches", err)
	}
	return matches, nil
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, result models.MatchResult) (*models.Match, error) {
	if err := validateResult(result); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError("get match", err)
	}
	if match.Finalized {
		return nil, ErrMatchAlreadyFinalized
	}
	if result.Finalize && !match.BothConcrete() {
		return nil, ErrTeamsNotAssigned
	}

	if err := s.matchRepo.RecordResult(ctx, matchID, result); err != nil {
		return nil, handleRepositoryError("record result", err)
	}

	updated, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError("reload match", err)
	}

	s.logger.InfoContext(ctx, "Match result recorded",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", updated.TournamentID),
		slog.Int("score_a", result.ScoreA),
		slog.Int("score_b", result.ScoreB),
		slog.Bool("finalized", updated.Finalized))

	s.notifier.PublishTournamentEvent(updated.TournamentID, brackets.MessageMatchUpdated, updated)
	return updated, nil
}

func validateResult(r models.MatchResult) error {
	if r.ScoreA < 0 || r.ScoreB < 0 {
		return ErrInvalidScore
	}
	if (r.PenaltyA == nil) != (r.PenaltyB == nil) {
		return ErrInvalidScore
	}
	if r.PenaltyA != nil && (*r.PenaltyA < 0 || *r.PenaltyB < 0) {
		return ErrInvalidScore
	}
	return nil
}

func (s *matchService) SetSlotRule(ctx context.Context, matchID int, side models.SlotSide, rule string) (*models.Match, error) {
	if !side.Valid() {
		return nil, ErrInvalidSlotSide
	}

	var stored *string
	switch parsed := brackets.ParseRule(rule).(type) {
	case brackets.ClearRule:
		stored = nil
	case brackets.Unparseable:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRule, parsed.Reason)
	default:
		text := strings.TrimSpace(parsed.String())
		stored = &text
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError("get match", err)
	}
	if match.Finalized {
		return nil, ErrMatchAlreadyFinalized
	}
	if ref, ok := brackets.ParseRule(rule).(brackets.MatchOutcomeRef); ok {
		self, err := s.refersToItself(ctx, match, ref.Ref)
		if err != nil {
			return nil, err
		}
		if self {
			return nil, fmt.Errorf("%w: rule references its own match", ErrInvalidRule)
		}
	}

	if err := s.matchRepo.SetSlotRule(ctx, matchID, side, stored); err != nil {
		return nil, handleRepositoryError("set slot rule", err)
	}

	updated, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError("reload match", err)
	}
	s.notifier.PublishTournamentEvent(updated.TournamentID, brackets.MessageMatchUpdated, updated)
	return updated, nil
}

// refersToItself checks a match reference against the match's id and, for
// INDEX:<n> references, against its position among the elimination matches.
func (s *matchService) refersToItself(ctx context.Context, match *models.Match, ref brackets.MatchRef) (bool, error) {
	if !ref.Positional {
		return ref.ID == match.ID, nil
	}
	if match.Stage != models.StageElimination {
		return false, nil
	}
	stage := models.StageElimination
	bracket, err := s.matchRepo.ListByTournament(ctx, match.TournamentID, &stage)
	if err != nil {
		return false, handleRepositoryError("list elimination matches", err)
	}
	for index, m := range bracket {
		if m.ID == match.ID {
			return index == ref.Index, nil
		}
	}
	return false, nil
}
