package repositories

import (
	"context"

	"github.com/ewallet-demo/ewallet/internal/domain/entities"
)

type TransactionRepository interface {
	// SaveTransaction appends one immutable record to the log.
	SaveTransaction(ctx context.Context, t *entities.Transaction) error
	// GetTransactionsByUsername returns the account's visible history,
	// newest first. A transfer appears exactly once per side: transfer_in
	// records whose sender is the account itself are never attributed back
	// to it. limit caps the result; limit <= 0 returns the full trail.
	GetTransactionsByUsername(ctx context.Context, username string, limit int) ([]*entities.Transaction, error)
}
