package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pichanga-app/pichanga-backend/repositories"
)

// TxManager runs a function inside a single database transaction.
// The executor passed to fn is the transaction itself, so repository
// calls made through it see and hold the same row locks.
type sqlTxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) repositories.TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	err = fn(tx)
	return err
}
