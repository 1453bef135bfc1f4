package repositories

import (
	"context"
	"database/sql"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

type GroupMembershipRepository interface {
	// ListByTournament returns memberships in declaration order.
	ListByTournament(ctx context.Context, tournamentID int) ([]models.GroupMembership, error)
}

type postgresGroupMembershipRepository struct {
	db *sql.DB
}

func NewPostgresGroupMembershipRepository(db *sql.DB) GroupMembershipRepository {
	return &postgresGroupMembershipRepository{db: db}
}

func (r *postgresGroupMembershipRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.GroupMembership, error) {
	query := `
		SELECT team_id, COALESCE(group_label, '')
		FROM group_memberships
		WHERE tournament_id = $1
		ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.GroupMembership, 0)
	for rows.Next() {
		var m models.GroupMembership
		if err := rows.Scan(&m.TeamID, &m.Group); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}
