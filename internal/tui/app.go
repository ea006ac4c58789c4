package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ewallet-demo/ewallet/internal/application/errs"
	"github.com/ewallet-demo/ewallet/internal/application/interfaces"
	"github.com/ewallet-demo/ewallet/internal/config"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	"github.com/shopspring/decimal"
)

type State int

const (
	StateMainMenu State = iota
	StateLogin
	StateCreateAccount
	StateLoggedIn
	StateDeposit
	StateWithdraw
	StateTransfer
	StateViewTransactions
)

// App is the presentation collaborator: it interprets keystrokes, renders
// screens and calls the ledger service. All ledger state lives behind the
// service; the fields here are purely presentational.
type App struct {
	state State
	input []rune
	// Transfer is a two-step sub-flow: recipient first, then amount.
	transferRecipient string
	recipientCaptured bool

	messages     *MessageLog
	ledger       interfaces.LedgerService
	historyLimit int
	logger       logger.Logger
	out          io.Writer
}

func New(ledger interfaces.LedgerService, cfg *config.Config, out io.Writer, logger logger.Logger) (*App, error) {
	if ledger == nil {
		return nil, errors.New("nil dependency: ledger service")
	}
	if cfg == nil {
		return nil, errors.New("nil dependency: config")
	}

	return &App{
		state:        StateMainMenu,
		messages:     NewMessageLog(cfg.UI.MessageTimeout),
		ledger:       ledger,
		historyLimit: cfg.UI.HistoryLimit,
		logger:       logger,
		out:          out,
	}, nil
}

// HandleKey dispatches one keypress against the current state. It returns
// quit=true when the user leaves the app, and a non-nil error only on
// storage failure, which must abort the loop.
func (a *App) HandleKey(ctx context.Context, key Key) (quit bool, err error) {
	if key.Kind == KeyCtrlC {
		return true, nil
	}

	switch a.state {
	case StateMainMenu:
		switch {
		case key.Kind == KeyRune && key.Rune == '1':
			a.state = StateLogin
		case key.Kind == KeyRune && key.Rune == '2':
			a.state = StateCreateAccount
		case key.Kind == KeyRune && key.Rune == 'q':
			return true, nil
		}

	case StateLogin, StateCreateAccount:
		switch key.Kind {
		case KeyEnter:
			if len(a.input) == 0 {
				break
			}
			if err = a.submitUsername(ctx); err != nil {
				return false, err
			}
		case KeyRune:
			a.input = append(a.input, key.Rune)
		case KeyBackspace:
			a.popInput()
		case KeyEsc:
			a.state = StateMainMenu
			a.input = nil
		}

	case StateLoggedIn:
		if key.Kind != KeyRune {
			break
		}
		switch key.Rune {
		case '1':
			a.state = StateDeposit
		case '2':
			a.state = StateWithdraw
		case '3':
			a.state = StateTransfer
		case '4':
			a.state = StateViewTransactions
		case '5':
			a.ledger.Logout()
			a.state = StateMainMenu
			a.messages.Add("Logged out successfully.")
		}

	case StateDeposit, StateWithdraw:
		switch key.Kind {
		case KeyEnter:
			if err = a.submitAmount(ctx); err != nil {
				return false, err
			}
		case KeyRune:
			a.input = append(a.input, key.Rune)
		case KeyBackspace:
			a.popInput()
		case KeyEsc:
			a.state = StateLoggedIn
			a.input = nil
		}

	case StateTransfer:
		switch key.Kind {
		case KeyEnter:
			if !a.recipientCaptured {
				a.transferRecipient = string(a.input)
				a.recipientCaptured = true
				a.input = nil
				break
			}
			if err = a.submitTransfer(ctx); err != nil {
				return false, err
			}
		case KeyRune:
			a.input = append(a.input, key.Rune)
		case KeyBackspace:
			a.popInput()
		case KeyEsc:
			// Abort clears both captured fields.
			a.state = StateLoggedIn
			a.input = nil
			a.transferRecipient = ""
			a.recipientCaptured = false
		}

	case StateViewTransactions:
		if key.Kind == KeyEsc || key.Kind == KeyEnter {
			a.state = StateLoggedIn
		}
	}

	return false, nil
}

func (a *App) submitUsername(ctx context.Context) error {
	username := string(a.input)

	var err error
	if a.state == StateLogin {
		err = a.ledger.Login(ctx, username)
	} else {
		err = a.ledger.CreateAccount(ctx, username)
	}

	switch {
	case err == nil:
		if a.state == StateLogin {
			a.messages.Add("Login successful.")
		} else {
			a.messages.Add("Account created successfully.")
		}
		a.input = nil
		a.state = StateLoggedIn
	case errors.Is(err, errs.ErrNotFound):
		a.messages.Add("User does not exist. Please try again.")
	case errors.Is(err, errs.ErrDataConflict):
		a.messages.Add("Username already exists. Please choose a different username.")
	default:
		return err
	}

	return nil
}

func (a *App) submitAmount(ctx context.Context) error {
	amount, ok := a.parseAmount()
	if !ok {
		return nil
	}

	var err error
	if a.state == StateDeposit {
		err = a.ledger.Deposit(ctx, amount)
	} else {
		err = a.ledger.Withdraw(ctx, amount)
	}

	switch {
	case err == nil:
		if a.state == StateDeposit {
			a.messages.Add(fmt.Sprintf("Deposited $%s", amount.StringFixed(2)))
		} else {
			a.messages.Add(fmt.Sprintf("Withdrawn $%s", amount.StringFixed(2)))
		}
		a.input = nil
		a.state = StateLoggedIn
	case errors.Is(err, errs.ErrNotEnoughFunds):
		a.messages.Add("Insufficient funds.")
		a.input = nil
		a.state = StateLoggedIn
	case errors.Is(err, errs.ErrInvalidAmount):
		a.messages.Add("Invalid amount. Please enter a positive number.")
		a.input = nil
	default:
		return err
	}

	return nil
}

func (a *App) submitTransfer(ctx context.Context) error {
	amount, ok := a.parseAmount()
	if !ok {
		return nil
	}

	recipient := a.transferRecipient
	err := a.ledger.Transfer(ctx, recipient, amount)

	switch {
	case err == nil:
		a.messages.Add(fmt.Sprintf("Transferred $%s to %s", amount.StringFixed(2), recipient))
	case errors.Is(err, errs.ErrRecipientNotFound):
		a.messages.Add(fmt.Sprintf("Transfer failed. Recipient '%s' not found.", recipient))
	case errors.Is(err, errs.ErrSelfTransfer):
		a.messages.Add("Transfer failed. Cannot transfer to yourself.")
	case errors.Is(err, errs.ErrNotEnoughFunds):
		a.messages.Add("Transfer failed. Insufficient funds.")
	case errors.Is(err, errs.ErrInvalidAmount):
		a.messages.Add("Invalid amount. Please enter a positive number.")
		a.input = nil
		return nil
	default:
		return err
	}

	a.input = nil
	a.transferRecipient = ""
	a.recipientCaptured = false
	a.state = StateLoggedIn

	return nil
}

func (a *App) parseAmount() (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(string(a.input)))
	if err != nil {
		a.messages.Add("Invalid amount. Please enter a valid number.")
		a.input = nil
		return decimal.Zero, false
	}
	return amount, true
}

func (a *App) popInput() {
	if len(a.input) > 0 {
		a.input = a.input[:len(a.input)-1]
	}
}
