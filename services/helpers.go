package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/standings"
)

// TournamentNotifier pushes live updates to clients following a tournament.
type TournamentNotifier interface {
	PublishTournamentEvent(tournamentID int, messageType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) PublishTournamentEvent(int, string, interface{}) {}

func notifierOrNoop(n TournamentNotifier) TournamentNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return l
}

// tournamentCriteria returns the tie-break chain stored on the tournament, or the
// default chain when the organizer never chose one.
func tournamentCriteria(t *models.Tournament) ([]standings.Criterion, error) {
	if t.TieBreakCriteria == nil {
		return standings.DefaultCriteria(), nil
	}
	criteria, err := standings.ParseCriteria(*t.TieBreakCriteria)
	if err != nil {
		return nil, fmt.Errorf("tournament %d tie-break criteria: %w", t.ID, err)
	}
	return criteria, nil
}

// tournamentState is everything read from storage to rank groups and resolve slots.
type tournamentState struct {
	matches     []*models.Match
	memberships []models.GroupMembership
	events      []models.DisciplinaryEvent
}

var countedCardTypes = []models.CardType{models.CardYellow, models.CardRed}

// loadTournamentState reads matches and memberships concurrently, then the cards of
// the finalized group matches.
func loadTournamentState(
	ctx context.Context,
	tournamentID int,
	matchRepo repositories.MatchRepository,
	membershipRepo repositories.GroupMembershipRepository,
	eventRepo repositories.DisciplinaryEventRepository,
) (*tournamentState, error) {
	state := &tournamentState{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := matchRepo.ListByTournament(gCtx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
		}
		state.matches = matches
		return nil
	})

	g.Go(func() error {
		memberships, err := membershipRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list group memberships of tournament %d: %w", tournamentID, err)
		}
		state.memberships = memberships
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var groupMatchIDs []int
	for _, m := range state.matches {
		if m.Stage == models.StageGroup && m.Finalized {
			groupMatchIDs = append(groupMatchIDs, m.ID)
		}
	}
	if len(groupMatchIDs) == 0 {
		return state, nil
	}

	events, err := eventRepo.ListByMatches(ctx, groupMatchIDs, countedCardTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplinary events of tournament %d: %w", tournamentID, err)
	}
	state.events = events
	return state, nil
}
