package brackets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

// Rule keywords as they are stored in match slots.
const (
	KeywordRanking = "RANKING"
	KeywordWinner  = "JOGO_VENC"
	KeywordLoser   = "JOGO_PERD"
	KeywordClear   = "LIMPAR"
	KeywordBye     = "BYE"

	indexPrefix = "INDEX"
)

// Rule is the parsed form of a slot placeholder. Concrete variants are
// RankingRef, MatchOutcomeRef, ClearRule, ByeRule and Unparseable.
type Rule interface {
	fmt.Stringer
	isRule()
}

// RankingRef points at a zero-based position of a group table.
type RankingRef struct {
	Group string
	Index int
}

// MatchRef addresses a match either by its stored id or by its position in the
// generated bracket.
type MatchRef struct {
	ID         int
	Index      int
	Positional bool
}

// MatchOutcomeRef is the winner (or loser) of a referenced match.
type MatchOutcomeRef struct {
	Ref        MatchRef
	WantWinner bool
}

// ClearRule asks the caller to erase the slot's rule.
type ClearRule struct{}

// ByeRule marks a slot that has no opponent by construction.
type ByeRule struct{}

// Unparseable keeps the original text so it can be reported back.
type Unparseable struct {
	Text   string
	Reason string
}

func (RankingRef) isRule()      {}
func (MatchOutcomeRef) isRule() {}
func (ClearRule) isRule()       {}
func (ByeRule) isRule()         {}
func (Unparseable) isRule()     {}

func (r RankingRef) String() string {
	return fmt.Sprintf("%s|%s:%d", KeywordRanking, r.Group, r.Index)
}

func (r MatchRef) String() string {
	if r.Positional {
		return fmt.Sprintf("%s:%d", indexPrefix, r.Index)
	}
	return strconv.Itoa(r.ID)
}

func (r MatchOutcomeRef) String() string {
	kw := KeywordLoser
	if r.WantWinner {
		kw = KeywordWinner
	}
	return kw + "|" + r.Ref.String()
}

func (ClearRule) String() string     { return KeywordClear }
func (ByeRule) String() string       { return KeywordBye }
func (u Unparseable) String() string { return u.Text }

// ByID and ByIndex build match references.
func ByID(id int) MatchRef       { return MatchRef{ID: id} }
func ByIndex(index int) MatchRef { return MatchRef{Index: index, Positional: true} }

// WinnerOf and LoserOf build outcome rules.
func WinnerOf(ref MatchRef) MatchOutcomeRef { return MatchOutcomeRef{Ref: ref, WantWinner: true} }
func LoserOf(ref MatchRef) MatchOutcomeRef  { return MatchOutcomeRef{Ref: ref} }

// ParseRule turns slot text into a Rule. It never fails: malformed text comes
// back as Unparseable with the cause in Reason.
func ParseRule(text string) Rule {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return Unparseable{Text: text, Reason: "empty rule"}
	}

	keyword, body, hasBody := strings.Cut(raw, "|")
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	body = strings.TrimSpace(body)

	switch keyword {
	case KeywordClear, KeywordBye:
		if hasBody && body != "" {
			return Unparseable{Text: text, Reason: fmt.Sprintf("%s takes no argument", keyword)}
		}
		if keyword == KeywordClear {
			return ClearRule{}
		}
		return ByeRule{}

	case KeywordRanking:
		group, idxText, ok := cutLast(body, ":")
		group = models.NormalizeGroupLabel(group)
		if !ok || group == "" {
			return Unparseable{Text: text, Reason: "ranking rule must look like RANKING|<GROUP>:<INDEX>"}
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxText))
		if err != nil || idx < 0 {
			return Unparseable{Text: text, Reason: fmt.Sprintf("invalid ranking index %q", idxText)}
		}
		return RankingRef{Group: group, Index: idx}

	case KeywordWinner, KeywordLoser:
		ref, reason := parseMatchRef(body)
		if reason != "" {
			return Unparseable{Text: text, Reason: reason}
		}
		return MatchOutcomeRef{Ref: ref, WantWinner: keyword == KeywordWinner}
	}

	return Unparseable{Text: text, Reason: fmt.Sprintf("unknown rule keyword %q", keyword)}
}

func parseMatchRef(body string) (MatchRef, string) {
	if body == "" {
		return MatchRef{}, "missing match reference"
	}
	if prefix, rest, ok := strings.Cut(body, ":"); ok {
		if strings.ToUpper(strings.TrimSpace(prefix)) != indexPrefix {
			return MatchRef{}, fmt.Sprintf("unknown match reference %q", body)
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 0 {
			return MatchRef{}, fmt.Sprintf("invalid positional index %q", rest)
		}
		return ByIndex(n), ""
	}
	id, err := strconv.Atoi(body)
	if err != nil || id <= 0 {
		return MatchRef{}, fmt.Sprintf("invalid match id %q", body)
	}
	return ByID(id), ""
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
