package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/fatih/color"
)

var (
	titleStyle   = color.New(color.FgCyan, color.Bold)
	promptStyle  = color.New(color.FgYellow)
	messageStyle = color.New(color.FgYellow)
	dimStyle     = color.New(color.FgHiBlack)
)

const clearScreen = "\x1b[2J\x1b[H"

// draw renders the whole frame for the current state. Rendering reads
// ledger state but never mutates it; a read failure here is a storage
// failure and aborts the loop.
func (a *App) draw(ctx context.Context) error {
	var b strings.Builder

	b.WriteString(clearScreen)
	writeLine(&b, titleStyle.Sprint("=== E-Wallet Demo ==="))
	writeLine(&b, "")

	switch a.state {
	case StateMainMenu:
		writeLine(&b, "Main Menu")
		writeLine(&b, "  1. Login")
		writeLine(&b, "  2. Create Account")
		writeLine(&b, "  q. Quit")

	case StateLogin:
		a.drawPrompt(&b, "Enter Username")

	case StateCreateAccount:
		a.drawPrompt(&b, "Enter New Username")

	case StateLoggedIn:
		if err := a.drawAccountMenu(ctx, &b); err != nil {
			return err
		}

	case StateDeposit:
		a.drawPrompt(&b, "Enter Deposit Amount")

	case StateWithdraw:
		a.drawPrompt(&b, "Enter Withdrawal Amount")

	case StateTransfer:
		if !a.recipientCaptured {
			a.drawPrompt(&b, "Enter Recipient Username")
		} else {
			a.drawPrompt(&b, "Enter Transfer Amount")
		}

	case StateViewTransactions:
		if err := a.drawTransactions(ctx, &b); err != nil {
			return err
		}
	}

	if msg, ok := a.messages.Last(); ok {
		writeLine(&b, "")
		writeLine(&b, messageStyle.Sprint(msg))
	}

	_, err := io.WriteString(a.out, b.String())
	return err
}

func (a *App) drawPrompt(b *strings.Builder, title string) {
	writeLine(b, title)
	writeLine(b, promptStyle.Sprintf("> %s_", string(a.input)))
	writeLine(b, "")
	writeLine(b, dimStyle.Sprint("Enter to confirm, Esc to cancel"))
}

func (a *App) drawAccountMenu(ctx context.Context, b *strings.Builder) error {
	username, _ := a.ledger.CurrentUser()

	balance, err := a.ledger.GetBalance(ctx)
	if err != nil {
		return err
	}

	writeLine(b, "Account Menu")
	writeLine(b, fmt.Sprintf("  Account: %s", username))
	writeLine(b, fmt.Sprintf("  Current Balance: $%s", balance.StringFixed(2)))
	writeLine(b, "  1. Deposit")
	writeLine(b, "  2. Withdraw")
	writeLine(b, "  3. Transfer")
	writeLine(b, "  4. View Transactions")
	writeLine(b, "  5. Logout")

	return nil
}

func (a *App) drawTransactions(ctx context.Context, b *strings.Builder) error {
	transactions, err := a.ledger.GetHistory(ctx, a.historyLimit)
	if err != nil {
		return err
	}

	writeLine(b, "Recent Transactions")

	if len(transactions) == 0 {
		writeLine(b, dimStyle.Sprint("  (no transactions yet)"))
	}

	for _, t := range transactions {
		writeLine(b, "  "+describe(t))
		writeLine(b, fmt.Sprintf("    Previous Balance: $%s | New Balance: $%s",
			t.PreviousBalance.StringFixed(2), t.NewBalance.StringFixed(2)))
		writeLine(b, dimStyle.Sprintf("    %s", t.Timestamp.Format("2006-01-02 15:04:05")))
	}

	writeLine(b, "")
	writeLine(b, dimStyle.Sprint("Enter or Esc to go back"))

	return nil
}

func describe(t *entities.Transaction) string {
	amount := t.Amount.StringFixed(2)

	switch t.Kind {
	case entities.Deposit:
		return fmt.Sprintf("Deposit: $%s", amount)
	case entities.Withdrawal:
		return fmt.Sprintf("Withdrawal: $%s", amount)
	case entities.TransferOut:
		return fmt.Sprintf("Transfer: $%s to %s", amount, t.Recipient)
	case entities.TransferIn:
		return fmt.Sprintf("Received: $%s from %s", amount, t.Sender)
	default:
		return fmt.Sprintf("Unknown transaction: $%s", amount)
	}
}

// writeLine ends lines with CRLF: the terminal is in raw mode while the
// app runs, so a bare newline would not return the carriage.
func writeLine(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\r\n")
}
