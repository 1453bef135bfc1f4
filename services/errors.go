package services

import (
	"errors"
	"fmt"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/repositories"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrInvalidSlotSide  = errors.New("slot side must be A or B")
	ErrInvalidScore     = errors.New("scores and penalties must be non-negative, penalties come in pairs")
	ErrInvalidRule      = errors.New("invalid slot rule")
	ErrTeamsNotAssigned = errors.New("both teams must be assigned before the result is finalized")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentClosed   = errors.New("tournament is canceled or completed")
	ErrMatchNotFound      = errors.New("match not found")

	ErrMatchAlreadyFinalized = errors.New("match result already finalized")
	ErrBracketAlreadyExists  = errors.New("tournament already has elimination matches")
	ErrResolutionInProgress  = errors.New("another progression pass is running for this tournament")
)

// handleRepositoryError translates repository sentinels into service sentinels and
// wraps anything else with the operation name.
func handleRepositoryError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrMatchTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchAlreadyFinalized):
		return ErrMatchAlreadyFinalized
	case errors.Is(err, repositories.ErrInvalidSlotSide):
		return ErrInvalidSlotSide
	}
	return fmt.Errorf("%s: %w", op, err)
}
