package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

type DisciplinaryEventRepository interface {
	ListByMatches(ctx context.Context, matchIDs []int, types []models.CardType) ([]models.DisciplinaryEvent, error)
}

type postgresDisciplinaryEventRepository struct {
	db *sql.DB
}

func NewPostgresDisciplinaryEventRepository(db *sql.DB) DisciplinaryEventRepository {
	return &postgresDisciplinaryEventRepository{db: db}
}

func (r *postgresDisciplinaryEventRepository) ListByMatches(ctx context.Context, matchIDs []int, types []models.CardType) ([]models.DisciplinaryEvent, error) {
	if len(matchIDs) == 0 || len(types) == 0 {
		return []models.DisciplinaryEvent{}, nil
	}

	ids := make([]int64, len(matchIDs))
	for i, id := range matchIDs {
		ids[i] = int64(id)
	}
	kinds := make([]string, len(types))
	for i, t := range types {
		kinds[i] = string(t)
	}

	query := `
		SELECT match_id, team_id, card_type
		FROM disciplinary_events
		WHERE match_id = ANY($1) AND card_type = ANY($2)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids), pq.Array(kinds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.DisciplinaryEvent, 0)
	for rows.Next() {
		var ev models.DisciplinaryEvent
		if err := rows.Scan(&ev.MatchID, &ev.TeamID, &ev.Type); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
