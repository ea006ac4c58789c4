package tui

import "time"

type message struct {
	text    string
	addedAt time.Time
}

// MessageLog holds transient status messages. Visibility is time based:
// messages expire after a fixed timeout, polled once per input-loop
// iteration. Expiry never mutates ledger state.
type MessageLog struct {
	timeout time.Duration
	entries []message
	now     func() time.Time
}

func NewMessageLog(timeout time.Duration) *MessageLog {
	return &MessageLog{timeout: timeout, now: time.Now}
}

func (l *MessageLog) Add(text string) {
	l.entries = append(l.entries, message{text: text, addedAt: l.now()})
}

// Expire drops messages older than the timeout.
func (l *MessageLog) Expire() {
	now := l.now()

	kept := l.entries[:0]
	for _, m := range l.entries {
		if now.Sub(m.addedAt) < l.timeout {
			kept = append(kept, m)
		}
	}
	l.entries = kept
}

// Last returns the most recent message still on display.
func (l *MessageLog) Last() (string, bool) {
	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1].text, true
}

func (l *MessageLog) Len() int {
	return len(l.entries)
}
