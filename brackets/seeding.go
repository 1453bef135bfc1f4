package brackets

import (
	"fmt"
	"strings"
)

// GeneralGroup is the virtual standings table that pools every group.
const GeneralGroup = "GERAL"

// GeneralSeeder treats all qualifiers as one ranked pool and folds it: best
// against worst. In an odd pool the middle seed has nobody left and gets a bye.
type GeneralSeeder struct{}

func (s *GeneralSeeder) GetName() string { return "GENERAL" }

func (s *GeneralSeeder) Seed(params GenerateTemplateParams) ([]pairing, error) {
	total := params.TotalQualifiers()
	count := (total + 1) / 2
	out := make([]pairing, 0, count)

	for i := 0; i < count; i++ {
		j := total - 1 - i
		p := pairing{ruleA: RankingRef{Group: GeneralGroup, Index: i}}
		if j == i {
			p.ruleB = ByeRule{}
			p.observation = fmt.Sprintf("Overall #%d vs bye", i+1)
		} else {
			p.ruleB = RankingRef{Group: GeneralGroup, Index: j}
			p.observation = fmt.Sprintf("Overall #%d vs overall #%d", i+1, j+1)
		}
		out = append(out, p)
	}
	return out, nil
}

// OlympicSeeder crosses consecutive groups (A with B, C with D, ...): the k-th
// placed of the first group meets the mirrored place of the second group.
type OlympicSeeder struct{}

func (s *OlympicSeeder) GetName() string { return "OLYMPIC" }

func (s *OlympicSeeder) Seed(params GenerateTemplateParams) ([]pairing, error) {
	if params.GroupCount%2 != 0 {
		return nil, ErrOddGroupCount
	}
	q := params.QualifiersPerGroup
	out := make([]pairing, 0, params.TotalQualifiers()/2)

	for g := 0; g < params.GroupCount; g += 2 {
		first, second := GroupLabel(g), GroupLabel(g+1)
		for k := 0; k < q; k++ {
			mirrored := q - 1 - k
			out = append(out, pairing{
				ruleA:       RankingRef{Group: first, Index: k},
				ruleB:       RankingRef{Group: second, Index: mirrored},
				observation: fmt.Sprintf("Group %s #%d vs group %s #%d", first, k+1, second, mirrored+1),
			})
		}
	}
	return out, nil
}

// GroupLabel converts a zero-based group number to its letter label:
// 0 → A, 25 → Z, 26 → AA.
func GroupLabel(n int) string {
	label := ""
	for n >= 0 {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
	}
	return label
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
