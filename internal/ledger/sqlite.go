package ledger

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/alum-office/crmsync-cli/internal/model"
)

// SQLiteLedger implements Ledger using modernc.org/sqlite.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteLedger{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	submission_id  TEXT PRIMARY KEY,
	constituent_id TEXT NOT NULL,
	processed_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_constituent_id ON ledger_entries(constituent_id);
`

func (l *SQLiteLedger) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func (l *SQLiteLedger) Processed(ctx context.Context, submissionID string) (bool, error) {
	var exists int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM ledger_entries WHERE submission_id = ?`, submissionID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "sqlite: lookup submission")
	}
	return true, nil
}

func (l *SQLiteLedger) Commit(ctx context.Context, entry model.LedgerEntry) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (submission_id, constituent_id, processed_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(submission_id) DO NOTHING`,
		entry.SubmissionID, entry.ConstituentID, entry.ProcessedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: commit submission")
}

func (l *SQLiteLedger) Entries(ctx context.Context, limit int) ([]model.LedgerEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT submission_id, constituent_id, processed_at
		 FROM ledger_entries ORDER BY processed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list entries")
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.SubmissionID, &e.ConstituentID, &e.ProcessedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate entries")
}
