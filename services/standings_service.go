package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/brackets"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/standings"
)

// StandingRow is a ranked line of a group table.
type StandingRow struct {
	Position int    `json:"position"`
	TeamName string `json:"team_name"`
	models.GroupStanding
}

type GroupTable struct {
	Group string `json:"group"`
	// Finished is false while group matches remain; positions are provisional.
	Finished bool          `json:"finished"`
	Rows     []StandingRow `json:"rows"`
}

type StandingsView struct {
	TournamentID int          `json:"tournament_id"`
	Criteria     []string     `json:"criteria"`
	Groups       []GroupTable `json:"groups"`
	// General is the cross-group table GENERAL seeding ranks against.
	General []StandingRow `json:"general"`
}

type StandingsService interface {
	// ComputeStandings ranks every group of the tournament. An empty criteria chain
	// means the tournament's stored chain, or the default one.
	ComputeStandings(ctx context.Context, tournamentID int, criteria []standings.Criterion) (*StandingsView, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	membershipRepo repositories.GroupMembershipRepository
	eventRepo      repositories.DisciplinaryEventRepository
	teamRepo       repositories.TeamRepository
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	membershipRepo repositories.GroupMembershipRepository,
	eventRepo repositories.DisciplinaryEventRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		teamRepo:       teamRepo,
		logger:         loggerOrDefault(logger),
	}
}

func (s *standingsService) ComputeStandings(ctx context.Context, tournamentID int, criteria []standings.Criterion) (*StandingsView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError("get tournament", err)
	}
	if len(criteria) == 0 {
		if criteria, err = tournamentCriteria(tournament); err != nil {
			return nil, err
		}
	}

	state, err := loadTournamentState(ctx, tournamentID, s.matchRepo, s.membershipRepo, s.eventRepo)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		// Имена команд не обязательны для таблицы.
		s.logger.WarnContext(ctx, "Failed to load team names for standings",
			slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	tables := standings.Calculate(state.matches, state.memberships, state.events, criteria)
	finished := standings.FinishedGroups(state.matches, state.memberships)
	return buildStandingsView(tournamentID, tables, finished, criteria, names), nil
}

func buildStandingsView(tournamentID int, tables map[string][]models.GroupStanding, finished map[string]bool, criteria []standings.Criterion, names map[int]string) *StandingsView {
	view := &StandingsView{
		TournamentID: tournamentID,
		Criteria:     standings.Names(criteria),
		Groups:       make([]GroupTable, 0, len(tables)),
		General:      toRows(standings.GeneralTable(tables, criteria), names),
	}

	labels := make([]string, 0, len(tables))
	for label := range tables {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		view.Groups = append(view.Groups, GroupTable{
			Group:    label,
			Finished: finished[label],
			Rows:     toRows(tables[label], names),
		})
	}
	return view
}

func toRows(table []models.GroupStanding, names map[int]string) []StandingRow {
	rows := make([]StandingRow, len(table))
	for i, st := range table {
		name, ok := names[st.TeamID]
		if !ok {
			name = fmt.Sprintf("Team %d", st.TeamID)
		}
		rows[i] = StandingRow{Position: i + 1, TeamName: name, GroupStanding: st}
	}
	return rows
}

// rankedTeamIDs turns tables into the lookup the slot resolver reads, including the
// cross-group table under brackets.GeneralGroup.
func rankedTeamIDs(tables map[string][]models.GroupStanding, criteria []standings.Criterion) map[string][]int {
	order := standings.TeamOrder(tables)
	general := standings.GeneralTable(tables, criteria)
	ids := make([]int, len(general))
	for i, st := range general {
		ids[i] = st.TeamID
	}
	order[brackets.GeneralGroup] = ids
	return order
}

// unfinishedGroups lists the groups whose positions may still change. The
// cross-group table is only final once every seeded group is.
func unfinishedGroups(finished map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for label, done := range finished {
		if done {
			continue
		}
		out[label] = true
		if label != standings.FallbackGroup {
			out[brackets.GeneralGroup] = true
		}
	}
	return out
}
