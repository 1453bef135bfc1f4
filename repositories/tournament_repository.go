package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, status, tie_break_criteria, created_at
		FROM tournaments
		WHERE id = $1`

	var (
		t        models.Tournament
		criteria sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Status, &criteria, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.TieBreakCriteria = nullString(criteria)
	return &t, nil
}
