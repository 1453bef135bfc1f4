package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
	ErrSlotAlreadyAssigned    = errors.New("match slot already holds a team")
	ErrMatchAlreadyFinalized  = errors.New("match result already finalized")
	ErrInvalidSlotSide        = errors.New("invalid match slot side")
)

type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByTournament returns matches in creation order (ascending id).
	ListByTournament(ctx context.Context, tournamentID int, stage *models.StageKind) ([]*models.Match, error)
	// UpdateSlotTeam writes a team only if the slot holds no team yet.
	UpdateSlotTeam(ctx context.Context, matchID int, side models.SlotSide, teamID int) error
	// ClearSlotRule erases the rule of a slot that holds no team.
	ClearSlotRule(ctx context.Context, matchID int, side models.SlotSide) error
	// SetSlotRule replaces the rule and drops any team of the slot. A nil rule empties it.
	SetSlotRule(ctx context.Context, matchID int, side models.SlotSide, rule *string) error
	RecordResult(ctx context.Context, matchID int, result models.MatchResult) error
	InsertBracket(ctx context.Context, tournamentID int, entries []models.BracketTemplateEntry) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, stage, round, phase, observation,
		team_a_id, rule_a, team_b_id, rule_b,
		score_a, score_b, penalty_a, penalty_b, finalized`

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var (
		m                models.Match
		teamA, teamB     sql.NullInt64
		ruleA, ruleB     sql.NullString
		phase, obs       sql.NullString
		scoreA, scoreB   sql.NullInt64
		penaltyA, penalB sql.NullInt64
	)
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.Round, &phase, &obs,
		&teamA, &ruleA, &teamB, &ruleB,
		&scoreA, &scoreB, &penaltyA, &penalB, &m.Finalized,
	)
	if err != nil {
		return nil, err
	}
	m.Phase = nullString(phase)
	m.Observation = nullString(obs)
	m.SlotA = models.Slot{TeamID: nullInt(teamA), Rule: nullString(ruleA)}
	m.SlotB = models.Slot{TeamID: nullInt(teamB), Rule: nullString(ruleB)}
	m.ScoreA, m.ScoreB = nullInt(scoreA), nullInt(scoreB)
	m.PenaltyA, m.PenaltyB = nullInt(penaltyA), nullInt(penalB)
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, stage *models.StageKind) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}
	if stage != nil {
		queryBuilder.WriteString(" AND stage = $2")
		args = append(args, *stage)
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateSlotTeam(ctx context.Context, matchID int, side models.SlotSide, teamID int) error {
	teamColumn, _, err := slotColumns(side)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE matches SET %[1]s = $1 WHERE id = $2 AND %[1]s IS NULL`, teamColumn)
	result, err := r.db.ExecContext(ctx, query, teamID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return r.explainMissedWrite(ctx, result, matchID)
}

func (r *postgresMatchRepository) ClearSlotRule(ctx context.Context, matchID int, side models.SlotSide) error {
	teamColumn, ruleColumn, err := slotColumns(side)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE matches SET %s = NULL WHERE id = $1 AND %s IS NULL`, ruleColumn, teamColumn)
	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return err
	}
	return r.explainMissedWrite(ctx, result, matchID)
}

func (r *postgresMatchRepository) SetSlotRule(ctx context.Context, matchID int, side models.SlotSide, rule *string) error {
	teamColumn, ruleColumn, err := slotColumns(side)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE matches SET %s = $1, %s = NULL WHERE id = $2`, ruleColumn, teamColumn)
	result, err := r.db.ExecContext(ctx, query, rule, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) RecordResult(ctx context.Context, matchID int, res models.MatchResult) error {
	query := `
		UPDATE matches
		SET score_a = $1, score_b = $2, penalty_a = $3, penalty_b = $4, finalized = $5
		WHERE id = $6 AND finalized = FALSE`
	result, err := r.db.ExecContext(ctx, query, res.ScoreA, res.ScoreB, res.PenaltyA, res.PenaltyB, res.Finalize, matchID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}
	exists, err := r.exists(ctx, matchID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMatchNotFound
	}
	return ErrMatchAlreadyFinalized
}

// InsertBracket creates one ELIMINATION match per entry inside a single
// transaction, in entry order, so ids follow the positional indices.
func (r *postgresMatchRepository) InsertBracket(ctx context.Context, tournamentID int, entries []models.BracketTemplateEntry) (created []*models.Match, err error) {
	if len(entries) == 0 {
		return []*models.Match{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("InsertBracket failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else if err = tx.Commit(); err != nil {
			created = nil
		}
	}()

	return r.insertBracketMatches(ctx, tx, tournamentID, entries)
}

// insertBracketMatches writes the entries through exec, which is the bracket
// transaction in production.
func (r *postgresMatchRepository) insertBracketMatches(ctx context.Context, exec SQLExecutor, tournamentID int, entries []models.BracketTemplateEntry) ([]*models.Match, error) {
	stmt, err := exec.PrepareContext(ctx, `
		INSERT INTO matches
			(tournament_id, stage, round, phase, observation, rule_a, rule_b, finalized)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id`)
	if err != nil {
		return nil, fmt.Errorf("InsertBracket failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	created := make([]*models.Match, 0, len(entries))
	for _, e := range entries {
		phase, obs := e.Phase, e.Observation
		ruleA, ruleB := e.RuleA, e.RuleB
		m := &models.Match{
			TournamentID: tournamentID,
			Stage:        models.StageElimination,
			Round:        e.Round,
			Phase:        &phase,
			Observation:  &obs,
			SlotA:        models.Slot{Rule: &ruleA},
			SlotB:        models.Slot{Rule: &ruleB},
		}
		if err := stmt.QueryRowContext(ctx, tournamentID, m.Stage, m.Round, phase, obs, ruleA, ruleB).Scan(&m.ID); err != nil {
			return nil, fmt.Errorf("InsertBracket failed for entry %d: %w", e.Index, r.handleMatchError(err))
		}
		created = append(created, m)
	}
	return created, nil
}

// explainMissedWrite turns a zero-row conditional update into a precise error.
func (r *postgresMatchRepository) explainMissedWrite(ctx context.Context, result sql.Result, matchID int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}
	exists, err := r.exists(ctx, matchID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMatchNotFound
	}
	return ErrSlotAlreadyAssigned
}

func (r *postgresMatchRepository) exists(ctx context.Context, matchID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, matchID).Scan(&exists)
	return exists, err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team_a_id_fkey", "matches_team_b_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
