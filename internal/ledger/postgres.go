package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/alum-office/crmsync-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the ledger uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresLedger implements Ledger using pgxpool.
type PostgresLedger struct {
	pool Pool
}

// NewPostgres creates a PostgresLedger with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresLedger{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	submission_id  TEXT PRIMARY KEY,
	constituent_id TEXT NOT NULL,
	processed_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_constituent_id ON ledger_entries(constituent_id);
`

func (l *PostgresLedger) Migrate(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (l *PostgresLedger) Close() error {
	l.pool.Close()
	return nil
}

func (l *PostgresLedger) Processed(ctx context.Context, submissionID string) (bool, error) {
	var exists int
	err := l.pool.QueryRow(ctx,
		`SELECT 1 FROM ledger_entries WHERE submission_id = $1`, submissionID,
	).Scan(&exists)
	if eris.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "postgres: lookup submission")
	}
	return true, nil
}

func (l *PostgresLedger) Commit(ctx context.Context, entry model.LedgerEntry) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO ledger_entries (submission_id, constituent_id, processed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (submission_id) DO NOTHING`,
		entry.SubmissionID, entry.ConstituentID, entry.ProcessedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: commit submission")
}

func (l *PostgresLedger) Entries(ctx context.Context, limit int) ([]model.LedgerEntry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT submission_id, constituent_id, processed_at
		 FROM ledger_entries ORDER BY processed_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list entries")
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.SubmissionID, &e.ConstituentID, &e.ProcessedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: iterate entries")
}
