package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/storage"
)

// ProgressionSnapshot is the public JSON document kept in the bucket for each tournament.
type ProgressionSnapshot struct {
	TournamentID int             `json:"tournament_id"`
	RunID        string          `json:"run_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Standings    *StandingsView  `json:"standings"`
	Matches      []*models.Match `json:"matches"`
}

type SnapshotService interface {
	// Publish uploads the current standings and matches and returns the public URL.
	Publish(ctx context.Context, tournamentID int, runID string) (string, error)
}

type snapshotService struct {
	publisher storage.ObjectPublisher
	standings StandingsService
	matches   MatchService
	now       func() time.Time
}

func NewSnapshotService(publisher storage.ObjectPublisher, standingsService StandingsService, matchService MatchService) SnapshotService {
	return &snapshotService{
		publisher: publisher,
		standings: standingsService,
		matches:   matchService,
		now:       time.Now,
	}
}

func SnapshotKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/progression.json", tournamentID)
}

func (s *snapshotService) Publish(ctx context.Context, tournamentID int, runID string) (string, error) {
	view, err := s.standings.ComputeStandings(ctx, tournamentID, nil)
	if err != nil {
		return "", fmt.Errorf("snapshot standings: %w", err)
	}
	matches, err := s.matches.ListMatches(ctx, tournamentID, nil)
	if err != nil {
		return "", fmt.Errorf("snapshot matches: %w", err)
	}

	body, err := json.Marshal(ProgressionSnapshot{
		TournamentID: tournamentID,
		RunID:        runID,
		GeneratedAt:  s.now().UTC(),
		Standings:    view,
		Matches:      matches,
	})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	res, err := s.publisher.Put(ctx, SnapshotKey(tournamentID), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return res.Location, nil
}
