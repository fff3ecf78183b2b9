// Package uow commits the writes buffered by repositories as one atomic
// transaction.
package uow

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/domca/internal/dbx"
	"github.com/dmitrijs2005/domca/internal/logging"
)

// UnitOfWork persists every pending change of a repository scope.
type UnitOfWork interface {
	// SaveChanges commits all pending changes and returns the number of
	// affected rows. On failure nothing is persisted.
	SaveChanges(ctx context.Context) (int, error)

	// Discard drops the pending changes without persisting them.
	Discard()
}

// SQLUnitOfWork runs a dbx.ChangeSet inside a single database/sql transaction.
type SQLUnitOfWork struct {
	db      *sql.DB
	changes *dbx.ChangeSet
	log     logging.Logger
}

func NewSQLUnitOfWork(db *sql.DB, changes *dbx.ChangeSet, log logging.Logger) *SQLUnitOfWork {
	if log == nil {
		log = logging.Discard()
	}
	return &SQLUnitOfWork{db: db, changes: changes, log: log}
}

// SaveChanges applies the pending changes in the order they were enqueued.
// The change set is cleared only after a successful commit; after a failure
// it still holds the changes so the caller may retry or Discard them.
func (u *SQLUnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	pending := u.changes.Pending()
	if len(pending) == 0 {
		return 0, nil
	}

	var total int64
	err := dbx.WithTx(ctx, u.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i, ch := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := ch(ctx, tx)
			if err != nil {
				return fmt.Errorf("change %d of %d: %w", i+1, len(pending), err)
			}
			total += n
		}
		return nil
	})
	if err != nil {
		u.log.Error(ctx, "save changes failed", "changes", len(pending), "error", err)
		return 0, err
	}

	u.changes.Clear(len(pending))
	u.log.Debug(ctx, "changes saved", "changes", len(pending), "rows", total)
	return int(total), nil
}

// Discard drops every pending change without touching the database.
func (u *SQLUnitOfWork) Discard() {
	u.changes.Reset()
}

// Pending reports how many changes wait for SaveChanges.
func (u *SQLUnitOfWork) Pending() int {
	return u.changes.Len()
}
