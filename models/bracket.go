package models

// CrossMode selects how group qualifiers are paired in the first elimination round.
type CrossMode string

const (
	CrossGeneral CrossMode = "GENERAL"
	CrossOlympic CrossMode = "OLYMPIC"
)

// BracketTemplateEntry is one symbolic elimination match produced by the generator.
// Index is the positional address used by "INDEX:<n>" rules.
type BracketTemplateEntry struct {
	Index       int    `json:"index"`
	Round       int    `json:"round"`
	Phase       string `json:"phase"`
	Observation string `json:"observation"`
	RuleA       string `json:"rule_a"`
	RuleB       string `json:"rule_b"`
}
