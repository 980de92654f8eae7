package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const unexpectedTxMessage = "an unexpected error occurred during the transaction"

// TxOptions configures every unit of work run by a Coordinator.
type TxOptions struct {
	Timeout    time.Duration
	Isolation  sql.IsolationLevel
	SyncCommit string // Postgres synchronous_commit for the transaction, "" to leave as is
}

// Coordinator runs units of work: one transaction, bounded in time, committed
// when fn returns nil and rolled back otherwise.
type Coordinator struct {
	db   *gorm.DB
	opts TxOptions
	log  *slog.Logger
}

func NewCoordinator(db *gorm.DB, opts TxOptions, log *slog.Logger) *Coordinator {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{db: db, opts: opts, log: log}
}

// Run executes fn inside a transaction and classifies any failure into *Error.
func (c *Coordinator) Run(ctx context.Context, op string, fn func(tx *gorm.DB) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			c.log.Error("transaction panicked", "op", op, "panic", p)
			err = Internalf(fmt.Errorf("panic: %v", p), unexpectedTxMessage)
		}
		if err != nil {
			c.log.Warn("transaction aborted", "op", op, "err", err, "elapsed", time.Since(start))
			return
		}
		c.log.Debug("transaction committed", "op", op, "elapsed", time.Since(start))
	}()

	txErr := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.opts.SyncCommit != "" {
			// value is validated by config; SET does not take bind parameters
			if err := tx.Exec("SET LOCAL synchronous_commit = " + c.opts.SyncCommit).Error; err != nil {
				return err
			}
		}
		return fn(tx)
	}, &sql.TxOptions{Isolation: c.opts.Isolation})
	if txErr == nil {
		return nil
	}
	return classify(ctx, txErr)
}

func classify(ctx context.Context, err error) error {
	if e := AsError(err); e != nil {
		return e
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(KindNotFound, err, "record not found")
	}
	if isConflict(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return conflict(err)
	}
	return Internalf(err, "transaction failed")
}

func isConflict(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505", "55P03": // serialization, deadlock, unique, lock not available
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "UNIQUE constraint failed")
}
