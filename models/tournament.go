package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Tournament is the slice of the tournament row the progression engine reads.
// TieBreakCriteria holds the organizer's chain ("POINTS,WINS,...") used both for
// the published tables and for seeding; nil means the default chain.
type Tournament struct {
	ID               int              `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Status           TournamentStatus `json:"status" db:"status"`
	TieBreakCriteria *string          `json:"tie_break_criteria,omitempty" db:"tie_break_criteria"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// Closed reports whether the tournament no longer accepts bracket changes.
func (t *Tournament) Closed() bool {
	return t.Status == StatusCanceled || t.Status == StatusCompleted
}
