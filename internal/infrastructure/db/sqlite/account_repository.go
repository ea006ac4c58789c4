package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ewallet-demo/ewallet/internal/application/errs"
	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/ewallet-demo/ewallet/internal/domain/repositories"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type AccountRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewAccountRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*AccountRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &AccountRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) CreateAccount(ctx context.Context, username string) error {
	const query = "INSERT INTO accounts (username, balance) VALUES (?, '0')"

	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, username)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %q", errs.ErrDataConflict, username)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetAccountByUsername(ctx context.Context, username string) (*entities.Account, error) {
	const query = "SELECT username, balance FROM accounts WHERE username = ?"

	account := new(entities.Account)

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, username).Scan(
		&account.Username,
		&account.Balance,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return account, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, username string, balance decimal.Decimal) error {
	const query = "UPDATE accounts SET balance = ? WHERE username = ?"

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, balance, username)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %q", errs.ErrNotFound, username)
	}

	return nil
}

// isUniqueViolation reports whether the driver error is a primary key or
// unique constraint violation.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
