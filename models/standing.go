package models

// GroupStanding is recomputed on every call and never stored on its own.
type GroupStanding struct {
	TeamID       int    `json:"team_id"`
	Group        string `json:"group"`
	Played       int    `json:"played"`
	Points       int    `json:"points"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalDiff     int    `json:"goal_diff"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	YellowCards  int    `json:"yellow_cards"`
	RedCards     int    `json:"red_cards"`
}
