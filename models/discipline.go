package models

type CardType string

const (
	CardYellow CardType = "YELLOW"
	CardRed    CardType = "RED"
)

type DisciplinaryEvent struct {
	MatchID int      `json:"match_id" db:"match_id"`
	TeamID  int      `json:"team_id" db:"team_id"`
	Type    CardType `json:"type" db:"type"`
}
