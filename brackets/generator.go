package brackets

import (
	"errors"
	"fmt"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

var (
	ErrConfiguration         = errors.New("invalid bracket configuration")
	ErrInvalidGroupCount     = fmt.Errorf("%w: group count must be at least 1", ErrConfiguration)
	ErrInvalidQualifierCount = fmt.Errorf("%w: qualifiers per group must be at least 1", ErrConfiguration)
	ErrOddGroupCount         = fmt.Errorf("%w: olympic cross mode requires an even group count", ErrConfiguration)
	ErrUnknownCrossMode      = fmt.Errorf("%w: unknown cross mode", ErrConfiguration)
)

type GenerateTemplateParams struct {
	GroupCount         int
	QualifiersPerGroup int
}

func (p GenerateTemplateParams) TotalQualifiers() int {
	return p.GroupCount * p.QualifiersPerGroup
}

// pairing is one first-round match expressed as two rules plus its label text.
type pairing struct {
	ruleA, ruleB Rule
	observation  string
}

// Seeder pairs the qualifiers of the group stage into first-round matches.
type Seeder interface {
	Seed(params GenerateTemplateParams) ([]pairing, error)
	GetName() string
}

// NewSeeder returns the seeding strategy for a cross mode.
func NewSeeder(mode models.CrossMode) (Seeder, error) {
	switch mode {
	case models.CrossGeneral:
		return &GeneralSeeder{}, nil
	case models.CrossOlympic:
		return &OlympicSeeder{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownCrossMode, mode)
}

// ParseCrossMode accepts the mode case-insensitively; empty means GENERAL.
func ParseCrossMode(raw string) (models.CrossMode, error) {
	switch models.CrossMode(upper(raw)) {
	case "", models.CrossGeneral:
		return models.CrossGeneral, nil
	case models.CrossOlympic:
		return models.CrossOlympic, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCrossMode, raw)
}

// GenerateTemplate produces every elimination match from the first round to the
// final. Slice position equals Index, which is the address space of INDEX:<n>
// rules, so callers must create matches in this order.
func GenerateTemplate(groupCount, qualifiersPerGroup int, mode models.CrossMode) ([]models.BracketTemplateEntry, error) {
	params := GenerateTemplateParams{GroupCount: groupCount, QualifiersPerGroup: qualifiersPerGroup}
	if params.GroupCount < 1 {
		return nil, ErrInvalidGroupCount
	}
	if params.QualifiersPerGroup < 1 {
		return nil, ErrInvalidQualifierCount
	}

	seeder, err := NewSeeder(mode)
	if err != nil {
		return nil, err
	}
	firstRound, err := seeder.Seed(params)
	if err != nil {
		return nil, err
	}
	return buildKnockoutRounds(firstRound), nil
}

// RoundLabel names a round by the number of matches it contains.
func RoundLabel(matchCount int) string {
	switch {
	case matchCount <= 1:
		return "Final"
	case matchCount == 2:
		return "Semifinal"
	case matchCount <= 4:
		return "Quarterfinal"
	case matchCount <= 8:
		return "Round of 16"
	case matchCount <= 16:
		return "Round of 32"
	}
	return fmt.Sprintf("Round of %d", 2*matchCount)
}
