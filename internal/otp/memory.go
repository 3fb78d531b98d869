package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger keeps codes in process memory. It suits a single instance
// only: codes are lost on restart and are not shared between replicas.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]Entry
	nowF    func() time.Time
	codeF   func() (string, error)
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		entries: make(map[string]Entry),
		nowF:    time.Now,
		codeF:   GenerateCode,
	}
}

func (l *MemoryLedger) Issue(ctx context.Context, phoneKey, deliveryHandle string) (string, error) {
	code, err := l.codeF()
	if err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[phoneKey] = Entry{
		Code:           code,
		ExpiresAt:      l.nowF().Add(TTL),
		DeliveryHandle: deliveryHandle,
	}
	return code, nil
}

// Verify holds the lock across fetch, compare and delete so that only one
// concurrent caller can consume a code.
func (l *MemoryLedger) Verify(ctx context.Context, phoneKey, code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[phoneKey]
	if !ok {
		return ErrNotFound
	}
	remove, err := check(e, code, l.nowF())
	if remove {
		delete(l.entries, phoneKey)
	}
	return err
}

func (l *MemoryLedger) Delete(ctx context.Context, phoneKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, phoneKey)
	return nil
}

// Pending returns the entry for phoneKey without consuming it. Test support
// only: request handling never reads a code back out of the ledger.
func (l *MemoryLedger) Pending(phoneKey string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[phoneKey]
	return e, ok
}
