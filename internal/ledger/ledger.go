// Package ledger persists which submissions have been applied to the
// CRM, so a re-run of the same input file never writes twice.
package ledger

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/alum-office/crmsync-cli/internal/config"
	"github.com/alum-office/crmsync-cli/internal/model"
)

// Ledger is the persistence interface for the submission ledger.
type Ledger interface {
	// Processed reports whether the submission was already committed.
	Processed(ctx context.Context, submissionID string) (bool, error)
	// Commit records a fully applied submission. Committing the same
	// submission twice is a no-op.
	Commit(ctx context.Context, entry model.LedgerEntry) error
	// Entries lists committed submissions, newest first.
	Entries(ctx context.Context, limit int) ([]model.LedgerEntry, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the configured ledger backend and runs its migration.
func Open(ctx context.Context, cfg config.LedgerConfig) (Ledger, error) {
	var (
		l   Ledger
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		l, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		l, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("ledger: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := l.Migrate(ctx); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}
