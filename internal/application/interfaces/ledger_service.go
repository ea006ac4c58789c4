package interfaces

import (
	"context"

	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/shopspring/decimal"
)

// LedgerService represents all the operations the presentation
// collaborator may call.
type LedgerService interface {
	Login(ctx context.Context, username string) error
	CreateAccount(ctx context.Context, username string) error
	Logout()
	CurrentUser() (string, bool)

	Deposit(ctx context.Context, amount decimal.Decimal) error
	Withdraw(ctx context.Context, amount decimal.Decimal) error
	Transfer(ctx context.Context, recipient string, amount decimal.Decimal) error
	GetBalance(ctx context.Context) (decimal.Decimal, error)
	GetHistory(ctx context.Context, limit int) ([]*entities.Transaction, error)
}
