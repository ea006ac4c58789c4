package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/ewallet-demo/ewallet/internal/domain/repositories"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
)

// timeLayout matches the layout of the timestamp column.
const timeLayout = "2006-01-02 15:04:05"

type TransactionRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewTransactionRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*TransactionRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &TransactionRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) SaveTransaction(ctx context.Context, t *entities.Transaction) error {
	const query = `
		INSERT INTO transactions
			(username, transaction_type, amount, recipient, sender,
			transfer_id, previous_balance, new_balance, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`

	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		t.Username,
		string(t.Kind),
		t.Amount,
		nullable(t.Recipient),
		nullable(t.Sender),
		nullable(t.TransferID),
		t.PreviousBalance,
		t.NewBalance,
		t.Timestamp.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) GetTransactionsByUsername(ctx context.Context, username string, limit int) ([]*entities.Transaction, error) {
	// A transfer_in whose sender is the account itself must never be
	// attributed back to the sender as if it were its own deposit.
	const query = `
		SELECT id, username, transaction_type, amount, recipient, sender,
			transfer_id, previous_balance, new_balance, timestamp
		FROM transactions
		WHERE username = ?
			AND NOT (transaction_type = 'transfer_in' AND sender = username)
		ORDER BY id DESC
		LIMIT ?;
	`

	// A negative LIMIT means no limit in SQLite.
	if limit <= 0 {
		limit = -1
	}

	transactions := make([]*entities.Transaction, 0)

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Errorf("close rows: %s", err)
		}
	}()

	for rows.Next() {
		var (
			t                             entities.Transaction
			recipient, sender, transferID sql.NullString
			timestamp                     string
		)

		err = rows.Scan(
			&t.ID,
			&t.Username,
			&t.Kind,
			&t.Amount,
			&recipient,
			&sender,
			&transferID,
			&t.PreviousBalance,
			&t.NewBalance,
			&timestamp,
		)
		if err != nil {
			return nil, err
		}

		t.Recipient = recipient.String
		t.Sender = sender.String
		t.TransferID = transferID.String

		t.Timestamp, err = time.ParseInLocation(timeLayout, timestamp, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
		}

		transactions = append(transactions, &t)
	}

	// Rows.Err will report the last error encountered by Rows.Scan.
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
