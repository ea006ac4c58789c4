package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ewallet-demo/ewallet/internal/application/errs"
	"github.com/ewallet-demo/ewallet/internal/config"
	"github.com/ewallet-demo/ewallet/internal/domain/entities"
	"github.com/ewallet-demo/ewallet/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLedger is an in-memory stand-in for the ledger service.
type mockLedger struct {
	balances map[string]decimal.Decimal
	current  string
	history  []*entities.Transaction

	// failWith, when set, is returned by every mutating operation to
	// simulate a storage failure.
	failWith error

	transferCalls []string
}

func newMockLedger(usernames ...string) *mockLedger {
	m := &mockLedger{balances: make(map[string]decimal.Decimal)}
	for _, u := range usernames {
		m.balances[u] = decimal.Zero
	}
	return m
}

func (m *mockLedger) Login(_ context.Context, username string) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.balances[username]; !ok {
		return errs.ErrNotFound
	}
	m.current = username
	return nil
}

func (m *mockLedger) CreateAccount(_ context.Context, username string) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.balances[username]; ok {
		return errs.ErrDataConflict
	}
	m.balances[username] = decimal.Zero
	m.current = username
	return nil
}

func (m *mockLedger) Logout() {
	m.current = ""
}

func (m *mockLedger) CurrentUser() (string, bool) {
	return m.current, m.current != ""
}

func (m *mockLedger) Deposit(_ context.Context, amount decimal.Decimal) error {
	if m.failWith != nil {
		return m.failWith
	}
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}
	m.balances[m.current] = m.balances[m.current].Add(amount)
	return nil
}

func (m *mockLedger) Withdraw(_ context.Context, amount decimal.Decimal) error {
	if m.failWith != nil {
		return m.failWith
	}
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}
	if m.balances[m.current].LessThan(amount) {
		return errs.ErrNotEnoughFunds
	}
	m.balances[m.current] = m.balances[m.current].Sub(amount)
	return nil
}

func (m *mockLedger) Transfer(_ context.Context, recipient string, amount decimal.Decimal) error {
	m.transferCalls = append(m.transferCalls, fmt.Sprintf("%s:%s", recipient, amount))
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.balances[recipient]; !ok {
		return errs.ErrRecipientNotFound
	}
	if recipient == m.current {
		return errs.ErrSelfTransfer
	}
	if !amount.IsPositive() {
		return errs.ErrInvalidAmount
	}
	if m.balances[m.current].LessThan(amount) {
		return errs.ErrNotEnoughFunds
	}
	m.balances[m.current] = m.balances[m.current].Sub(amount)
	m.balances[recipient] = m.balances[recipient].Add(amount)
	return nil
}

func (m *mockLedger) GetBalance(_ context.Context) (decimal.Decimal, error) {
	if m.current == "" {
		return decimal.Zero, nil
	}
	return m.balances[m.current], nil
}

func (m *mockLedger) GetHistory(_ context.Context, _ int) ([]*entities.Transaction, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.history, nil
}

func newTestApp(t *testing.T, ledger *mockLedger) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		UI: config.UI{MessageTimeout: 5 * time.Second, HistoryLimit: 10},
	}

	out := new(bytes.Buffer)

	app, err := New(ledger, cfg, out, logger.NewNop())
	require.NoError(t, err)

	return app, out
}

func press(t *testing.T, a *App, keys ...Key) {
	t.Helper()
	for _, key := range keys {
		quit, err := a.HandleKey(context.Background(), key)
		require.NoError(t, err)
		require.False(t, quit)
	}
}

func typeString(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		press(t, a, Key{Kind: KeyRune, Rune: r})
	}
}

func enter() Key { return Key{Kind: KeyEnter} }
func esc() Key   { return Key{Kind: KeyEsc} }
func key(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

func lastMessage(t *testing.T, a *App) string {
	t.Helper()
	msg, ok := a.messages.Last()
	require.True(t, ok, "expected a status message")
	return msg
}

func TestMainMenuDispatch(t *testing.T) {
	app, _ := newTestApp(t, newMockLedger())

	press(t, app, key('1'))
	assert.Equal(t, StateLogin, app.state)

	press(t, app, esc())
	assert.Equal(t, StateMainMenu, app.state)

	press(t, app, key('2'))
	assert.Equal(t, StateCreateAccount, app.state)

	press(t, app, esc())

	quit, err := app.HandleKey(context.Background(), key('q'))
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestLoginFlow(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ledger := newMockLedger("alice")
		app, _ := newTestApp(t, ledger)

		press(t, app, key('1'))
		typeString(t, app, "alice")
		press(t, app, enter())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Equal(t, "Login successful.", lastMessage(t, app))
		assert.Empty(t, app.input)
	})

	t.Run("unknown user keeps input for retry", func(t *testing.T) {
		app, _ := newTestApp(t, newMockLedger())

		press(t, app, key('1'))
		typeString(t, app, "ghost")
		press(t, app, enter())

		assert.Equal(t, StateLogin, app.state)
		assert.Equal(t, "User does not exist. Please try again.", lastMessage(t, app))
		assert.Equal(t, "ghost", string(app.input))
	})

	t.Run("enter with empty input is ignored", func(t *testing.T) {
		app, _ := newTestApp(t, newMockLedger())

		press(t, app, key('1'), enter())
		assert.Equal(t, StateLogin, app.state)
		assert.Equal(t, 0, app.messages.Len())
	})

	t.Run("backspace edits input", func(t *testing.T) {
		app, _ := newTestApp(t, newMockLedger())

		press(t, app, key('1'))
		typeString(t, app, "alx")
		press(t, app, Key{Kind: KeyBackspace})
		typeString(t, app, "ice")

		assert.Equal(t, "alice", string(app.input))
	})
}

func TestCreateAccountFlow(t *testing.T) {
	t.Run("success logs in", func(t *testing.T) {
		ledger := newMockLedger()
		app, _ := newTestApp(t, ledger)

		press(t, app, key('2'))
		typeString(t, app, "alice")
		press(t, app, enter())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Equal(t, "Account created successfully.", lastMessage(t, app))

		current, ok := ledger.CurrentUser()
		assert.True(t, ok)
		assert.Equal(t, "alice", current)
	})

	t.Run("duplicate username", func(t *testing.T) {
		app, _ := newTestApp(t, newMockLedger("alice"))

		press(t, app, key('2'))
		typeString(t, app, "alice")
		press(t, app, enter())

		assert.Equal(t, StateCreateAccount, app.state)
		assert.Equal(t, "Username already exists. Please choose a different username.",
			lastMessage(t, app))
	})
}

func TestDepositFlow(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ledger := newMockLedger("alice")
		ledger.current = "alice"
		app, _ := newTestApp(t, ledger)
		app.state = StateLoggedIn

		press(t, app, key('1'))
		assert.Equal(t, StateDeposit, app.state)

		typeString(t, app, "50")
		press(t, app, enter())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Equal(t, "Deposited $50.00", lastMessage(t, app))
		assert.True(t, ledger.balances["alice"].Equal(decimal.NewFromInt(50)))
	})

	t.Run("invalid amount stays on screen", func(t *testing.T) {
		ledger := newMockLedger("alice")
		ledger.current = "alice"
		app, _ := newTestApp(t, ledger)
		app.state = StateDeposit

		typeString(t, app, "abc")
		press(t, app, enter())

		assert.Equal(t, StateDeposit, app.state)
		assert.Equal(t, "Invalid amount. Please enter a valid number.", lastMessage(t, app))
		assert.Empty(t, app.input)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		ledger := newMockLedger("alice")
		ledger.current = "alice"
		app, _ := newTestApp(t, ledger)
		app.state = StateDeposit

		typeString(t, app, "-5")
		press(t, app, enter())

		assert.Equal(t, StateDeposit, app.state)
		assert.Equal(t, "Invalid amount. Please enter a positive number.", lastMessage(t, app))
	})
}

func TestWithdrawFlow(t *testing.T) {
	ledger := newMockLedger("alice")
	ledger.current = "alice"
	ledger.balances["alice"] = decimal.NewFromInt(100)
	app, _ := newTestApp(t, ledger)
	app.state = StateLoggedIn

	// Overdraft reports and returns to the menu, balance untouched.
	press(t, app, key('2'))
	typeString(t, app, "150")
	press(t, app, enter())

	assert.Equal(t, StateLoggedIn, app.state)
	assert.Equal(t, "Insufficient funds.", lastMessage(t, app))
	assert.True(t, ledger.balances["alice"].Equal(decimal.NewFromInt(100)))

	press(t, app, key('2'))
	typeString(t, app, "30")
	press(t, app, enter())

	assert.Equal(t, "Withdrawn $30.00", lastMessage(t, app))
	assert.True(t, ledger.balances["alice"].Equal(decimal.NewFromInt(70)))
}

func TestTransferFlow(t *testing.T) {
	t.Run("two step entry", func(t *testing.T) {
		ledger := newMockLedger("alice", "bob")
		ledger.current = "alice"
		ledger.balances["alice"] = decimal.NewFromInt(100)
		app, _ := newTestApp(t, ledger)
		app.state = StateLoggedIn

		press(t, app, key('3'))
		assert.Equal(t, StateTransfer, app.state)

		// First Enter captures the recipient.
		typeString(t, app, "bob")
		press(t, app, enter())
		assert.True(t, app.recipientCaptured)
		assert.Equal(t, "bob", app.transferRecipient)
		assert.Empty(t, app.input)

		// Second Enter captures the amount and fires the transfer.
		typeString(t, app, "40")
		press(t, app, enter())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Equal(t, "Transferred $40.00 to bob", lastMessage(t, app))
		assert.Equal(t, []string{"bob:40"}, ledger.transferCalls)
		assert.True(t, ledger.balances["alice"].Equal(decimal.NewFromInt(60)))
		assert.True(t, ledger.balances["bob"].Equal(decimal.NewFromInt(40)))
	})

	t.Run("escape clears both captured fields", func(t *testing.T) {
		ledger := newMockLedger("alice", "bob")
		ledger.current = "alice"
		app, _ := newTestApp(t, ledger)
		app.state = StateTransfer

		typeString(t, app, "bob")
		press(t, app, enter())
		typeString(t, app, "40")
		press(t, app, esc())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Empty(t, app.input)
		assert.Empty(t, app.transferRecipient)
		assert.False(t, app.recipientCaptured)
		assert.Empty(t, ledger.transferCalls)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		ledger := newMockLedger("alice")
		ledger.current = "alice"
		ledger.balances["alice"] = decimal.NewFromInt(100)
		app, _ := newTestApp(t, ledger)
		app.state = StateTransfer

		typeString(t, app, "carol")
		press(t, app, enter())
		typeString(t, app, "10")
		press(t, app, enter())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Equal(t, "Transfer failed. Recipient 'carol' not found.", lastMessage(t, app))
		assert.True(t, ledger.balances["alice"].Equal(decimal.NewFromInt(100)))
	})

	t.Run("self transfer", func(t *testing.T) {
		ledger := newMockLedger("alice")
		ledger.current = "alice"
		ledger.balances["alice"] = decimal.NewFromInt(100)
		app, _ := newTestApp(t, ledger)
		app.state = StateTransfer

		typeString(t, app, "alice")
		press(t, app, enter())
		typeString(t, app, "10")
		press(t, app, enter())

		assert.Equal(t, StateLoggedIn, app.state)
		assert.Equal(t, "Transfer failed. Cannot transfer to yourself.", lastMessage(t, app))
	})
}

func TestLogoutKey(t *testing.T) {
	ledger := newMockLedger("alice")
	ledger.current = "alice"
	app, _ := newTestApp(t, ledger)
	app.state = StateLoggedIn

	press(t, app, key('5'))

	assert.Equal(t, StateMainMenu, app.state)
	assert.Equal(t, "Logged out successfully.", lastMessage(t, app))

	_, ok := ledger.CurrentUser()
	assert.False(t, ok)
}

func TestViewTransactionsDismiss(t *testing.T) {
	ledger := newMockLedger("alice")
	ledger.current = "alice"
	app, _ := newTestApp(t, ledger)
	app.state = StateLoggedIn

	press(t, app, key('4'))
	assert.Equal(t, StateViewTransactions, app.state)

	press(t, app, enter())
	assert.Equal(t, StateLoggedIn, app.state)

	press(t, app, key('4'), esc())
	assert.Equal(t, StateLoggedIn, app.state)
}

func TestStorageFailureAbortsDispatch(t *testing.T) {
	ledger := newMockLedger("alice")
	ledger.current = "alice"
	ledger.failWith = errors.New("database is locked")
	app, _ := newTestApp(t, ledger)
	app.state = StateDeposit

	typeString(t, app, "50")

	_, err := app.HandleKey(context.Background(), enter())
	require.Error(t, err)
	assert.ErrorContains(t, err, "database is locked")
}

func TestCtrlCQuitsAnywhere(t *testing.T) {
	app, _ := newTestApp(t, newMockLedger())
	app.state = StateTransfer

	quit, err := app.HandleKey(context.Background(), Key{Kind: KeyCtrlC})
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestDraw(t *testing.T) {
	ledger := newMockLedger("alice")
	ledger.current = "alice"
	ledger.balances["alice"] = decimal.NewFromInt(60)
	ledger.history = []*entities.Transaction{
		{
			Kind:            entities.TransferOut,
			Username:        "alice",
			Recipient:       "bob",
			Amount:          decimal.NewFromInt(40),
			PreviousBalance: decimal.NewFromInt(100),
			NewBalance:      decimal.NewFromInt(60),
			Timestamp:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local),
		},
	}

	app, out := newTestApp(t, ledger)
	app.state = StateLoggedIn

	require.NoError(t, app.draw(context.Background()))
	assert.Contains(t, out.String(), "Account: alice")
	assert.Contains(t, out.String(), "Current Balance: $60.00")

	out.Reset()
	app.state = StateViewTransactions

	require.NoError(t, app.draw(context.Background()))
	assert.Contains(t, out.String(), "Transfer: $40.00 to bob")
	assert.Contains(t, out.String(), "Previous Balance: $100.00 | New Balance: $60.00")
}
