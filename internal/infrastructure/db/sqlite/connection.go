package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ewallet-demo/ewallet/internal/config"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	sqldblogger "github.com/simukti/sqldb-logger"
	_ "modernc.org/sqlite"
)

// Connect opens the local database file and verifies connectivity.
func Connect(cfg *config.Config, logger logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}

	// Log every query to the database.
	db = sqldblogger.OpenDriver(cfg.Database.Path, db.Driver(), logger)

	// A single-user app needs exactly one connection; more would only
	// invite SQLITE_BUSY contention on the file.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema when missing. Money columns hold canonical
// decimal strings rather than REAL to avoid floating-point drift.
func Migrate(ctx context.Context, db *sql.DB) error {
	const accounts = `
		CREATE TABLE IF NOT EXISTS accounts (
			username TEXT PRIMARY KEY,
			balance TEXT NOT NULL DEFAULT '0'
		);
	`

	const transactions = `
		CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			transaction_type TEXT NOT NULL,
			amount TEXT NOT NULL,
			recipient TEXT,
			sender TEXT,
			transfer_id TEXT,
			previous_balance TEXT NOT NULL,
			new_balance TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);
	`

	const transactionsIdx = `
		CREATE INDEX IF NOT EXISTS idx_transactions_username
			ON transactions (username, id);
	`

	for _, query := range []string{accounts, transactions, transactionsIdx} {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	return nil
}
