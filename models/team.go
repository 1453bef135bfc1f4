package models

import "strings"

// Team это справочные данные, принадлежат внешней системе регистрации.
type Team struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// GroupMembership assigns a team to a labelled group of a tournament.
type GroupMembership struct {
	TeamID int    `json:"team_id" db:"team_id"`
	Group  string `json:"group" db:"group_label"`
}

// NormalizeGroupLabel is the canonical form of a group label: trimmed, inner
// whitespace collapsed, upper case. Standings and rules both key groups by it.
func NormalizeGroupLabel(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), " "))
}
