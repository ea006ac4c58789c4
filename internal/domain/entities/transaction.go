package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	Deposit     TransactionKind = "deposit"
	Withdrawal  TransactionKind = "withdraw"
	TransferOut TransactionKind = "transfer_out"
	TransferIn  TransactionKind = "transfer_in"
)

// Transaction is one immutable record of the append-only log. A transfer
// produces two records, one per side, sharing the same TransferID.
type Transaction struct {
	ID       int64
	Username string
	Kind     TransactionKind
	Amount   decimal.Decimal
	// Recipient is set on transfer_out records, Sender on transfer_in.
	Recipient  string
	Sender     string
	TransferID string
	// Balance snapshots of the owner at the moment of the record,
	// enabling audit without replay.
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	Timestamp       time.Time
}

func NewDeposit(username string, amount, before, after decimal.Decimal) *Transaction {
	return &Transaction{
		Username:        username,
		Kind:            Deposit,
		Amount:          amount,
		PreviousBalance: before,
		NewBalance:      after,
		Timestamp:       time.Now(),
	}
}

func NewWithdrawal(username string, amount, before, after decimal.Decimal) *Transaction {
	return &Transaction{
		Username:        username,
		Kind:            Withdrawal,
		Amount:          amount,
		PreviousBalance: before,
		NewBalance:      after,
		Timestamp:       time.Now(),
	}
}

func NewTransferOut(sender, recipient, transferID string, amount, before, after decimal.Decimal) *Transaction {
	return &Transaction{
		Username:        sender,
		Kind:            TransferOut,
		Amount:          amount,
		Recipient:       recipient,
		TransferID:      transferID,
		PreviousBalance: before,
		NewBalance:      after,
		Timestamp:       time.Now(),
	}
}

func NewTransferIn(recipient, sender, transferID string, amount, before, after decimal.Decimal) *Transaction {
	return &Transaction{
		Username:        recipient,
		Kind:            TransferIn,
		Amount:          amount,
		Sender:          sender,
		TransferID:      transferID,
		PreviousBalance: before,
		NewBalance:      after,
		Timestamp:       time.Now(),
	}
}
