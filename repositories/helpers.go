package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/models"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// slotColumns maps a side to its team and rule columns. Only these constant
// names ever reach the query text.
func slotColumns(side models.SlotSide) (teamColumn, ruleColumn string, err error) {
	switch side {
	case models.SideA:
		return "team_a_id", "rule_a", nil
	case models.SideB:
		return "team_b_id", "rule_b", nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidSlotSide, side)
}
