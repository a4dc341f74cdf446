package teamkit

import (
	"fmt"
	"time"

	"context"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes fn within a database transaction with automatic
// commit/rollback. fn receives the transaction-bound database and must
// use it for every operation that should be part of the unit; if fn
// returns an error the transaction is rolled back, otherwise committed.
// Nested calls become savepoints.
//
// Example:
//
//	err := service.Transaction(ctx, func(ctx context.Context, db dbkit.IDB) error {
//	    if _, err := db.NewInsert().Model(membership).Exec(ctx); err != nil {
//	        return err // rollback
//	    }
//	    _, err := db.NewDelete().Table("team_invitations").Where("id = ?", id).Exec(ctx)
//	    return err
//	})
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context, db dbkit.IDB) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Already in a transaction, use savepoint
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, tx)
		})
	case *dbkit.DBKit:
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, tx)
		})
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	duration := time.Since(start)
	s.txMonitor.recordTransaction(duration, err == nil)

	return err
}

// TransactionWithOptions executes fn within a database transaction with
// custom options. Supports read-only transactions, isolation levels, and
// other transaction parameters. Options are ignored for nested calls.
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, db dbkit.IDB) error) error {
	if tx, ok := s.db.(*dbkit.Tx); ok {
		return tx.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, tx)
		})
	}

	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(ctx, tx)
		})
	}

	return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}

// ReadOnlyTransaction executes fn within a read-only database
// transaction. Useful for multi-query reads that need a consistent view.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, db dbkit.IDB) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}
