package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[?25l"
	leaveAltScreen = "\x1b[?1049l\x1b[?25h"
)

// Run drives the interactive loop until the user quits or a storage
// failure occurs. The terminal is restored on every exit path.
func (a *App) Run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}

	defer func() {
		_, _ = io.WriteString(a.out, leaveAltScreen)
		if err := term.Restore(fd, oldState); err != nil {
			a.logger.Errorf("restore terminal: %s", err)
		}
	}()

	if _, err = io.WriteString(a.out, enterAltScreen); err != nil {
		return fmt.Errorf("write to terminal: %w", err)
	}

	in := bufio.NewReader(os.Stdin)

	for {
		// Message expiry is polled once per iteration, not timer driven.
		a.messages.Expire()

		if err = a.draw(ctx); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		key, err := ReadKey(in)
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}

		quit, err := a.HandleKey(ctx, key)
		if err != nil {
			// Only storage failures reach here; continuing would risk
			// unrecorded financial operations.
			return fmt.Errorf("ledger operation: %w", err)
		}
		if quit {
			return nil
		}
	}
}
