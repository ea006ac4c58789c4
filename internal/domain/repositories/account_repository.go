package repositories

import (
	"context"

	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	// CreateAccount inserts a new account with a zero balance.
	// Returns errs.ErrDataConflict if the username is already taken.
	CreateAccount(ctx context.Context, username string) error
	// GetAccountByUsername returns errs.ErrNotFound for unknown usernames.
	GetAccountByUsername(ctx context.Context, username string) (*entities.Account, error)
	// UpdateBalance unconditionally overwrites the account balance.
	// The caller is responsible for computing the correct value and for
	// atomicity with the transaction log write.
	UpdateBalance(ctx context.Context, username string, balance decimal.Decimal) error
}
