package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

func entriesInRound(entries []models.BracketTemplateEntry, round int) []models.BracketTemplateEntry {
	var out []models.BracketTemplateEntry
	for _, e := range entries {
		if e.Round == round {
			out = append(out, e)
		}
	}
	return out
}

func TestGenerateTemplateGeneralTwoGroupsOfFour(t *testing.T) {
	entries, err := GenerateTemplate(2, 4, models.CrossGeneral)
	require.NoError(t, err)
	require.Len(t, entries, 7)

	for i, e := range entries {
		assert.Equal(t, i, e.Index)
	}

	first := entriesInRound(entries, 1)
	require.Len(t, first, 4)
	for _, e := range first {
		assert.Equal(t, "Quarterfinal", e.Phase)
	}
	assert.Equal(t, "RANKING|GERAL:0", first[0].RuleA)
	assert.Equal(t, "RANKING|GERAL:7", first[0].RuleB)
	assert.Equal(t, "RANKING|GERAL:3", first[3].RuleA)
	assert.Equal(t, "RANKING|GERAL:4", first[3].RuleB)

	second := entriesInRound(entries, 2)
	require.Len(t, second, 2)
	assert.Equal(t, "Semifinal", second[0].Phase)
	assert.Equal(t, "JOGO_VENC|INDEX:0", second[0].RuleA)
	assert.Equal(t, "JOGO_VENC|INDEX:1", second[0].RuleB)
	assert.Equal(t, "JOGO_VENC|INDEX:2", second[1].RuleA)
	assert.Equal(t, "JOGO_VENC|INDEX:3", second[1].RuleB)

	final := entriesInRound(entries, 3)
	require.Len(t, final, 1)
	assert.Equal(t, "Final", final[0].Phase)
	assert.Equal(t, "JOGO_VENC|INDEX:4", final[0].RuleA)
	assert.Equal(t, "JOGO_VENC|INDEX:5", final[0].RuleB)
}

func TestGenerateTemplateOddTotalProducesBye(t *testing.T) {
	entries, err := GenerateTemplate(1, 7, models.CrossGeneral)
	require.NoError(t, err)

	first := entriesInRound(entries, 1)
	require.Len(t, first, 4)
	assert.Equal(t, "RANKING|GERAL:0", first[0].RuleA)
	assert.Equal(t, "RANKING|GERAL:6", first[0].RuleB)
	assert.Equal(t, "RANKING|GERAL:3", first[3].RuleA)
	assert.Equal(t, "BYE", first[3].RuleB)

	// the bye slot never resolves to a team, whatever the standings hold
	ctx := &Context{
		Standings:    map[string][]int{GeneralGroup: {1, 2, 3, 4, 5, 6, 7, 8}},
		CurrentIndex: first[3].Index,
	}
	res := ResolveText(first[3].RuleB, ctx)
	assert.Equal(t, Bye, res.Status)
	assert.Zero(t, res.TeamID)

	assert.Len(t, entries, 4+2+1)
}

func TestGenerateTemplateOddRoundCarriesBye(t *testing.T) {
	// 6 qualifiers: 3 first-round matches fold into 2, then the final
	entries, err := GenerateTemplate(3, 2, models.CrossGeneral)
	require.NoError(t, err)
	require.Len(t, entries, 6)

	second := entriesInRound(entries, 2)
	require.Len(t, second, 2)
	assert.Equal(t, "JOGO_VENC|INDEX:2", second[1].RuleA)
	assert.Equal(t, "BYE", second[1].RuleB)
	assert.Equal(t, "Semifinal", second[1].Phase)
}

func TestGenerateTemplateOlympic(t *testing.T) {
	entries, err := GenerateTemplate(4, 2, models.CrossOlympic)
	require.NoError(t, err)
	require.Len(t, entries, 7)

	first := entriesInRound(entries, 1)
	require.Len(t, first, 4)
	assert.Equal(t, [][2]string{
		{"RANKING|A:0", "RANKING|B:1"},
		{"RANKING|A:1", "RANKING|B:0"},
		{"RANKING|C:0", "RANKING|D:1"},
		{"RANKING|C:1", "RANKING|D:0"},
	}, [][2]string{
		{first[0].RuleA, first[0].RuleB},
		{first[1].RuleA, first[1].RuleB},
		{first[2].RuleA, first[2].RuleB},
		{first[3].RuleA, first[3].RuleB},
	})
	assert.Equal(t, "Group A #1 vs group B #2", first[0].Observation)
}

func TestGenerateTemplateOlympicOddGroupsRejected(t *testing.T) {
	_, err := GenerateTemplate(3, 2, models.CrossOlympic)
	assert.ErrorIs(t, err, ErrOddGroupCount)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGenerateTemplateInvalidInput(t *testing.T) {
	_, err := GenerateTemplate(0, 2, models.CrossGeneral)
	assert.ErrorIs(t, err, ErrInvalidGroupCount)

	_, err = GenerateTemplate(2, 0, models.CrossGeneral)
	assert.ErrorIs(t, err, ErrInvalidQualifierCount)

	_, err = GenerateTemplate(2, 2, models.CrossMode("SWISS"))
	assert.ErrorIs(t, err, ErrUnknownCrossMode)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGenerateTemplateSingleQualifierIsFinalWithBye(t *testing.T) {
	entries, err := GenerateTemplate(1, 1, models.CrossGeneral)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Final", entries[0].Phase)
	assert.Equal(t, "BYE", entries[0].RuleB)
}

func TestGenerateTemplateIsAlwaysATree(t *testing.T) {
	for groups := 1; groups <= 6; groups++ {
		for q := 1; q <= 5; q++ {
			entries, err := GenerateTemplate(groups, q, models.CrossGeneral)
			require.NoError(t, err)

			last := entries[len(entries)-1]
			assert.Equal(t, "Final", last.Phase, "groups=%d q=%d", groups, q)

			// every match but the final feeds exactly one later match
			fed := make(map[int]int)
			for _, e := range entries {
				for _, text := range []string{e.RuleA, e.RuleB} {
					if ref, ok := ParseRule(text).(MatchOutcomeRef); ok {
						assert.Less(t, ref.Ref.Index, e.Index)
						fed[ref.Ref.Index]++
					}
				}
			}
			for _, e := range entries[:len(entries)-1] {
				assert.Equal(t, 1, fed[e.Index], "groups=%d q=%d index=%d", groups, q, e.Index)
			}
		}
	}
}

func TestRoundLabel(t *testing.T) {
	assert.Equal(t, "Final", RoundLabel(1))
	assert.Equal(t, "Semifinal", RoundLabel(2))
	assert.Equal(t, "Quarterfinal", RoundLabel(3))
	assert.Equal(t, "Quarterfinal", RoundLabel(4))
	assert.Equal(t, "Round of 16", RoundLabel(8))
	assert.Equal(t, "Round of 32", RoundLabel(16))
	assert.Equal(t, "Round of 64", RoundLabel(32))
}

func TestGroupLabel(t *testing.T) {
	assert.Equal(t, "A", GroupLabel(0))
	assert.Equal(t, "Z", GroupLabel(25))
	assert.Equal(t, "AA", GroupLabel(26))
	assert.Equal(t, "AB", GroupLabel(27))
}

func TestParseCrossMode(t *testing.T) {
	mode, err := ParseCrossMode("")
	assert.NoError(t, err)
	assert.Equal(t, models.CrossGeneral, mode)

	mode, err = ParseCrossMode("olympic")
	assert.NoError(t, err)
	assert.Equal(t, models.CrossOlympic, mode)

	_, err = ParseCrossMode("swiss")
	assert.ErrorIs(t, err, ErrUnknownCrossMode)
}
