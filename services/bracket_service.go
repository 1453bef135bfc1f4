package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
)

type BracketCreatedPayload struct {
	TournamentID int              `json:"tournament_id"`
	Mode         models.CrossMode `json:"mode"`
	Matches      []*models.Match  `json:"matches"`
}

type BracketService interface {
	// GenerateBracket returns the symbolic elimination template without storing it.
	GenerateBracket(groupCount, qualifiersPerGroup int, mode models.CrossMode) ([]models.BracketTemplateEntry, error)
	// CreateBracket generates the template and stores it as the tournament's
	// elimination matches. A tournament gets at most one bracket.
	CreateBracket(ctx context.Context, tournamentID, groupCount, qualifiersPerGroup int, mode models.CrossMode) ([]*models.Match, error)
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	notifier       TournamentNotifier
	logger         *slog.Logger
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	notifier TournamentNotifier,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		notifier:       notifierOrNoop(notifier),
		logger:         loggerOrDefault(logger),
	}
}

func (s *bracketService) GenerateBracket(groupCount, qualifiersPerGroup int, mode models.CrossMode) ([]models.BracketTemplateEntry, error) {
	if mode == "" {
		mode = models.CrossGeneral
	}
	return brackets.GenerateTemplate(groupCount, qualifiersPerGroup, mode)
}

func (s *bracketService) CreateBracket(ctx context.Context, tournamentID, groupCount, qualifiersPerGroup int, mode models.CrossMode) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	if tournament.Closed() {
		return nil, ErrTournamentClosed
	}
	if mode == "" {
		mode = models.CrossGeneral
	}

	entries, err := s.GenerateBracket(groupCount, qualifiersPerGroup, mode)
	if err != nil {
		return nil, err
	}

	stage := models.StageElimination
	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, &stage)
	if err != nil {
		return nil, handleRepositoryError("list elimination matches", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: %d matches found", ErrBracketAlreadyExists, len(existing))
	}

	created, err := s.matchRepo.InsertBracket(ctx, tournamentID, entries)
	if err != nil {
		return nil, handleRepositoryError("insert bracket", err)
	}

	s.logger.InfoContext(ctx, "Bracket created",
		slog.Int("tournament_id", tournamentID),
		slog.String("mode", string(mode)),
		slog.Int("groups", groupCount),
		slog.Int("qualifiers_per_group", qualifiersPerGroup),
		slog.Int("matches", len(created)))

	s.notifier.PublishTournamentEvent(tournamentID, brackets.MessageBracketCreated, BracketCreatedPayload{
		TournamentID: tournamentID,
		Mode:         mode,
		Matches:      created,
	})
	return created, nil
}
