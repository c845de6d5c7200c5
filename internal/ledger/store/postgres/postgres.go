// Package postgres persists the ledger in PostgreSQL. Stores join the
// transaction carried in ctx when one is open.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"almanah/internal/ledger/ports"
	id "almanah/pkg/domain"
	dErrors "almanah/pkg/domain-errors"
	"almanah/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// New returns the ledger stores bound to db and their transaction runner.
func New(db *sql.DB, txTimeout time.Duration) (ports.Stores, *Tx) {
	return ports.Stores{
		PrintedCards: NewPrintedCards(db),
		Entries:      NewEntries(db),
		Albums:       NewAlbums(db),
	}, NewTx(db, txTimeout)
}

// Tx runs a callback in a database transaction holding the user's advisory
// lock, so claims for one user apply in sequence.
type Tx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTx(db *sql.DB, timeout time.Duration) *Tx {
	return &Tx{db: db, timeout: timeout}
}

func (t *Tx) RunInTx(ctx context.Context, userID id.UserID, fn func(ctx context.Context) error) error {
	if _, ok := tx.From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID.String()); err != nil {
		return fmt.Errorf("lock user: %w", err)
	}

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func idStrings[T fmt.Stringer](ids []T) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = strings.ToLower(v.String())
	}
	return out
}

func parseEntryIDs(raw pq.StringArray) ([]id.EntryID, error) {
	out := make([]id.EntryID, 0, len(raw))
	for _, s := range raw {
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse album entry id %q: %w", s, err)
		}
		out = append(out, id.EntryID(u))
	}
	return out, nil
}
