package brackets

import (
	"fmt"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

type ResolutionStatus int

const (
	Unresolved ResolutionStatus = iota
	Resolved
	// Bye means the slot can never be filled by a team; it is not a pending state.
	Bye
)

func (s ResolutionStatus) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Bye:
		return "bye"
	default:
		return "unresolved"
	}
}

// Resolution is the result of evaluating one rule. TeamID is only meaningful when
// Status is Resolved; Reason explains anything else.
type Resolution struct {
	Status ResolutionStatus
	TeamID int
	Reason string
}

func resolved(teamID int) Resolution { return Resolution{Status: Resolved, TeamID: teamID} }

func unresolved(format string, args ...any) Resolution {
	return Resolution{Status: Unresolved, Reason: fmt.Sprintf(format, args...)}
}

func bye(reason string) Resolution { return Resolution{Status: Bye, Reason: reason} }

// Outcome is what the resolver needs to know about a referenced match.
type Outcome struct {
	MatchID   int
	TeamA     *int
	TeamB     *int
	ByeA      bool
	ByeB      bool
	ScoreA    *int
	ScoreB    *int
	PenaltyA  *int
	PenaltyB  *int
	Finalized bool
}

// Context carries everything a rule may resolve against. CurrentIndex is -1 when
// the match being resolved has no positional index. Groups listed in Unfinished
// still have group matches to play, so their positions are not final.
type Context struct {
	Standings         map[string][]int
	Unfinished        map[string]bool
	OutcomesByMatchID map[int]Outcome
	OutcomesByIndex   map[int]Outcome
	CurrentMatchID    int
	CurrentIndex      int
}

// Resolve evaluates a parsed rule. It does not modify ctx.
func Resolve(rule Rule, ctx *Context) Resolution {
	if ctx == nil {
		ctx = &Context{CurrentIndex: -1}
	}
	switch r := rule.(type) {
	case RankingRef:
		return resolveRanking(r, ctx)
	case MatchOutcomeRef:
		return resolveOutcome(r, ctx)
	case ByeRule:
		return bye("slot is a bye")
	case ClearRule:
		return unresolved("%s is applied by the caller, not resolved", KeywordClear)
	case Unparseable:
		return unresolved("invalid rule %q: %s", r.Text, r.Reason)
	case nil:
		return unresolved("no rule")
	}
	return unresolved("unsupported rule %T", rule)
}

// ResolveText parses and resolves in one step.
func ResolveText(text string, ctx *Context) Resolution {
	return Resolve(ParseRule(text), ctx)
}

func resolveRanking(r RankingRef, ctx *Context) Resolution {
	label, table, ok := lookupGroup(ctx.Standings, r.Group)
	if !ok {
		return unresolved("group %s has no standings yet", r.Group)
	}
	if ctx.Unfinished[label] || ctx.Unfinished[r.Group] {
		return unresolved("group %s not finished", r.Group)
	}
	if r.Index >= len(table) {
		return unresolved("group %s has %d ranked teams, position %d not available", r.Group, len(table), r.Index+1)
	}
	return resolved(table[r.Index])
}

// lookupGroup finds a table by its normalized label, tolerating keys that were
// stored in another case.
func lookupGroup(tables map[string][]int, group string) (string, []int, bool) {
	if table, ok := tables[group]; ok {
		return group, table, true
	}
	for label, table := range tables {
		if models.NormalizeGroupLabel(label) == group {
			return label, table, true
		}
	}
	return "", nil, false
}

func resolveOutcome(r MatchOutcomeRef, ctx *Context) Resolution {
	if isSelfReference(r.Ref, ctx) {
		return unresolved("rule %s references its own match", r)
	}

	var (
		out   Outcome
		found bool
	)
	if r.Ref.Positional {
		out, found = ctx.OutcomesByIndex[r.Ref.Index]
	} else {
		out, found = ctx.OutcomesByMatchID[r.Ref.ID]
	}
	if !found {
		return unresolved("match %s has no result yet", r.Ref)
	}

	winner, loser, reason := decide(out)
	if reason != "" {
		return unresolved("match %s: %s", r.Ref, reason)
	}
	side := loser
	if r.WantWinner {
		side = winner
	}
	if side.bye {
		return bye(fmt.Sprintf("match %s was a walkover", r.Ref))
	}
	return resolved(*side.team)
}

func isSelfReference(ref MatchRef, ctx *Context) bool {
	if ref.Positional {
		return ctx.CurrentIndex >= 0 && ref.Index == ctx.CurrentIndex
	}
	return ctx.CurrentMatchID != 0 && ref.ID == ctx.CurrentMatchID
}

type outcomeSide struct {
	team *int
	bye  bool
}

// decide returns winner and loser, or a non-empty reason when the outcome is
// not decided yet. A walkover against a bye needs no score.
func decide(o Outcome) (winner, loser outcomeSide, reason string) {
	a := outcomeSide{team: o.TeamA, bye: o.ByeA}
	b := outcomeSide{team: o.TeamB, bye: o.ByeB}

	switch {
	case a.bye && b.bye:
		return a, b, ""
	case b.bye:
		if a.team == nil {
			return winner, loser, "walkover team not known yet"
		}
		return a, b, ""
	case a.bye:
		if b.team == nil {
			return winner, loser, "walkover team not known yet"
		}
		return b, a, ""
	}

	if !o.Finalized {
		return winner, loser, "not finalized"
	}
	if a.team == nil || b.team == nil {
		return winner, loser, "teams not assigned"
	}
	if o.ScoreA == nil || o.ScoreB == nil {
		return winner, loser, "score missing"
	}
	switch {
	case *o.ScoreA > *o.ScoreB:
		return a, b, ""
	case *o.ScoreB > *o.ScoreA:
		return b, a, ""
	}
	if o.PenaltyA == nil || o.PenaltyB == nil {
		return winner, loser, "draw without penalty shootout"
	}
	switch {
	case *o.PenaltyA > *o.PenaltyB:
		return a, b, ""
	case *o.PenaltyB > *o.PenaltyA:
		return b, a, ""
	}
	return winner, loser, "draw with level penalty shootout"
}
