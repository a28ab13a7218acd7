package sqlite

import (
	"context"
	"database/sql"

	"github.com/vocabox/vocabox/internal/logger"
)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithField("component", "repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debugf("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Errorf("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}
