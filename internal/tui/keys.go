package tui

import (
	"bufio"
	"unicode"
)

type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyRune
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyCtrlC
)

type Key struct {
	Kind KeyKind
	Rune rune
}

// ReadKey blocks until one keypress is decoded from the raw-mode terminal.
func ReadKey(r *bufio.Reader) (Key, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return Key{}, err
	}

	switch c {
	case '\r', '\n':
		return Key{Kind: KeyEnter}, nil
	case 0x7f, '\b':
		return Key{Kind: KeyBackspace}, nil
	case 0x03:
		return Key{Kind: KeyCtrlC}, nil
	case 0x1b:
		// A bare escape byte is the Esc key. Anything buffered behind it
		// is a CSI sequence (arrow keys and friends): swallow and ignore.
		if r.Buffered() == 0 {
			return Key{Kind: KeyEsc}, nil
		}
		for r.Buffered() > 0 {
			if _, err = r.ReadByte(); err != nil {
				return Key{}, err
			}
		}
		return Key{Kind: KeyNone}, nil
	}

	if unicode.IsPrint(c) {
		return Key{Kind: KeyRune, Rune: c}, nil
	}

	return Key{Kind: KeyNone}, nil
}
