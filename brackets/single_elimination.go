package brackets

import (
	"fmt"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

// buildKnockoutRounds lays out the first round and then folds each round into the
// next one: N matches feed ceil(N/2) matches, until a single final remains.
// An unpaired feeder meets a bye.
func buildKnockoutRounds(firstRound []pairing) []models.BracketTemplateEntry {
	total := len(firstRound)
	for n := len(firstRound); n > 1; n = (n + 1) / 2 {
		total += (n + 1) / 2
	}
	entries := make([]models.BracketTemplateEntry, 0, total)

	round := 1
	phase := RoundLabel(len(firstRound))
	current := make([]int, 0, len(firstRound))
	for _, p := range firstRound {
		idx := len(entries)
		entries = append(entries, models.BracketTemplateEntry{
			Index:       idx,
			Round:       round,
			Phase:       phase,
			Observation: p.observation,
			RuleA:       p.ruleA.String(),
			RuleB:       p.ruleB.String(),
		})
		current = append(current, idx)
	}

	for len(current) > 1 {
		round++
		nextCount := (len(current) + 1) / 2
		phase = RoundLabel(nextCount)
		next := make([]int, 0, nextCount)

		for i := 0; i < len(current); i += 2 {
			ruleA := Rule(WinnerOf(ByIndex(current[i])))
			ruleB := Rule(ByeRule{})
			observation := fmt.Sprintf("Winner of match %d vs bye", current[i]+1)
			if i+1 < len(current) {
				ruleB = WinnerOf(ByIndex(current[i+1]))
				observation = fmt.Sprintf("Winner of match %d vs winner of match %d", current[i]+1, current[i+1]+1)
			}

			idx := len(entries)
			entries = append(entries, models.BracketTemplateEntry{
				Index:       idx,
				Round:       round,
				Phase:       phase,
				Observation: observation,
				RuleA:       ruleA.String(),
				RuleB:       ruleB.String(),
			})
			next = append(next, idx)
		}
		current = next
	}

	return entries
}
