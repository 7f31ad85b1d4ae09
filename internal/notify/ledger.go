package notify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Ledger is an append-only file of addresses that have been notified, one per
// line. It survives restarts and may be shared by several notifiers.
type Ledger struct {
	mu   sync.Mutex
	path string
}

// NewLedger returns a ledger stored at path. The file is created on first
// Record.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Contains reports whether address occurs anywhere in the ledger.
//
// The check is a case-sensitive substring match over the whole file, so an
// address that is a suffix of a recorded one also counts as present.
func (l *Ledger) Contains(address string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	return strings.Contains(string(data), address), nil
}

// Record appends address to the ledger.
func (l *Ledger) Record(address string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if _, err := f.WriteString(address + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	return f.Close()
}
