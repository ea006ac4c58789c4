package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ewallet-demo/ewallet/internal/application/errs"
	"github.com/ewallet-demo/ewallet/internal/application/interfaces"
	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/ewallet-demo/ewallet/internal/domain/repositories"
	"github.com/ewallet-demo/ewallet/internal/session"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService orchestrates the account repository and the transaction log.
// Every mutating operation runs as a single all-or-nothing transaction, so a
// crash mid-operation cannot leave balances and log inconsistent.
type LedgerService struct {
	accountRepo     repositories.AccountRepository
	transactionRepo repositories.TransactionRepository
	session         *session.Session
	trm             trm.Manager
	logger          logger.Logger
}

func NewLedgerService(
	accountRepository repositories.AccountRepository,
	transactionRepository repositories.TransactionRepository,
	session *session.Session,
	trm trm.Manager,
	logger logger.Logger,
) (*LedgerService, error) {
	if accountRepository == nil {
		return nil, errors.New("nil dependency: account repository")
	}
	if transactionRepository == nil {
		return nil, errors.New("nil dependency: transaction repository")
	}
	if session == nil {
		return nil, errors.New("nil dependency: session")
	}
	if trm == nil {
		return nil, errors.New("nil dependency: transaction manager")
	}

	return &LedgerService{
		accountRepo:     accountRepository,
		transactionRepo: transactionRepository,
		session:         session,
		trm:             trm,
		logger:          logger,
	}, nil
}

var _ interfaces.LedgerService = (*LedgerService)(nil)

// Login authenticates the session iff the account exists.
func (s *LedgerService) Login(ctx context.Context, username string) error {
	if _, err := s.accountRepo.GetAccountByUsername(ctx, username); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: user %q", errs.ErrNotFound, username)
		}
		return fmt.Errorf("get account %q: %w", username, err)
	}

	s.session.SetCurrentUser(username)
	s.logger.Infof("user %q logged in", username)

	return nil
}

// CreateAccount creates a new account with a zero balance and logs it in.
func (s *LedgerService) CreateAccount(ctx context.Context, username string) error {
	if err := s.accountRepo.CreateAccount(ctx, username); err != nil {
		if errors.Is(err, errs.ErrDataConflict) {
			return fmt.Errorf("%w: username %q already exists", errs.ErrDataConflict, username)
		}
		return fmt.Errorf("create account %q: %w", username, err)
	}

	s.session.SetCurrentUser(username)
	s.logger.Infof("account %q created", username)

	return nil
}

// Logout resets the session to anonymous. Always succeeds, idempotent.
func (s *LedgerService) Logout() {
	s.session.Clear()
}

func (s *LedgerService) CurrentUser() (string, bool) {
	return s.session.CurrentUser()
}

// Deposit adds the amount to the authenticated account and appends one
// deposit record. Zero and negative amounts are rejected to keep meaningless
// entries out of the log.
func (s *LedgerService) Deposit(ctx context.Context, amount decimal.Decimal) error {
	username, ok := s.session.CurrentUser()
	if !ok {
		return errs.ErrNotAuthenticated
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
	}

	return s.trm.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetAccountByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("get account %q: %w", username, err)
		}

		newBalance := account.Balance.Add(amount)

		if err = s.accountRepo.UpdateBalance(ctx, username, newBalance); err != nil {
			return err
		}

		return s.transactionRepo.SaveTransaction(ctx,
			entities.NewDeposit(username, amount, account.Balance, newBalance))
	})
}

// Withdraw mirrors Deposit with a funds pre-check. The balance is read
// inside the transaction, immediately preceding the mutation.
func (s *LedgerService) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	username, ok := s.session.CurrentUser()
	if !ok {
		return errs.ErrNotAuthenticated
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
	}

	return s.trm.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetAccountByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("get account %q: %w", username, err)
		}

		if account.Balance.LessThan(amount) {
			return errs.ErrNotEnoughFunds
		}

		newBalance := account.Balance.Sub(amount)

		if err = s.accountRepo.UpdateBalance(ctx, username, newBalance); err != nil {
			return err
		}

		return s.transactionRepo.SaveTransaction(ctx,
			entities.NewWithdrawal(username, amount, account.Balance, newBalance))
	})
}

// Transfer debits the sender, credits the recipient and appends the
// transfer_out/transfer_in pair, all as one atomic unit. Checks run in
// order: authenticated, recipient exists, amount valid, sufficient funds;
// each short-circuits.
func (s *LedgerService) Transfer(ctx context.Context, recipient string, amount decimal.Decimal) error {
	sender, ok := s.session.CurrentUser()
	if !ok {
		return errs.ErrNotAuthenticated
	}

	return s.trm.Do(ctx, func(ctx context.Context) error {
		recipientAccount, err := s.accountRepo.GetAccountByUsername(ctx, recipient)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return fmt.Errorf("%w: %q", errs.ErrRecipientNotFound, recipient)
			}
			return fmt.Errorf("get account %q: %w", recipient, err)
		}

		if recipient == sender {
			return errs.ErrSelfTransfer
		}
		if !amount.IsPositive() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount)
		}

		senderAccount, err := s.accountRepo.GetAccountByUsername(ctx, sender)
		if err != nil {
			return fmt.Errorf("get account %q: %w", sender, err)
		}

		if senderAccount.Balance.LessThan(amount) {
			return errs.ErrNotEnoughFunds
		}

		senderNewBalance := senderAccount.Balance.Sub(amount)
		recipientNewBalance := recipientAccount.Balance.Add(amount)

		if err = s.accountRepo.UpdateBalance(ctx, sender, senderNewBalance); err != nil {
			return err
		}
		if err = s.accountRepo.UpdateBalance(ctx, recipient, recipientNewBalance); err != nil {
			return err
		}

		// Both halves of the transfer share one correlation id.
		transferID := uuid.NewString()

		err = s.transactionRepo.SaveTransaction(ctx, entities.NewTransferOut(
			sender, recipient, transferID, amount,
			senderAccount.Balance, senderNewBalance))
		if err != nil {
			return err
		}

		return s.transactionRepo.SaveTransaction(ctx, entities.NewTransferIn(
			recipient, sender, transferID, amount,
			recipientAccount.Balance, recipientNewBalance))
	})
}

// GetBalance returns the authenticated account's balance, or zero for an
// anonymous session. It never fails on authentication.
func (s *LedgerService) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	username, ok := s.session.CurrentUser()
	if !ok {
		return decimal.Zero, nil
	}

	account, err := s.accountRepo.GetAccountByUsername(ctx, username)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get account %q: %w", username, err)
	}

	return account.Balance, nil
}

// GetHistory returns the authenticated account's visible history, newest
// first, or an empty sequence for an anonymous session.
func (s *LedgerService) GetHistory(ctx context.Context, limit int) ([]*entities.Transaction, error) {
	username, ok := s.session.CurrentUser()
	if !ok {
		return []*entities.Transaction{}, nil
	}

	return s.transactionRepo.GetTransactionsByUsername(ctx, username, limit)
}
