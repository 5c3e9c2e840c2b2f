package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/courtsight/featuremart/internal/platform/querybuilder"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// clearLiveRows soft-deletes every live row of a table. Replace-style
// materializations call it first so a shrinking input set cannot leave stale
// rows visible.
func clearLiveRows(ctx context.Context, tx *sqlx.Tx, table string) error {
	query, args, err := qb.Update(table).
		SetExpr("deleted_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}
