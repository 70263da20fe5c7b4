package ledger

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
)

// Ledger counts how many of a fixed pool of qubits are idle. Qubits are tracked by count only, never by identity.
//
// Every successful Reserve must be matched by exactly one Release, whatever way the job holding the
// reservation ends.
type Ledger struct {
	capacity uint
	idle     uint
	mu       sync.Mutex
}

func New(capacity uint) *Ledger {
	return &Ledger{
		capacity: capacity,
		idle:     capacity,
	}
}

// Reserve takes n qubits from the idle pool. It succeeds iff at least one qubit is idle and at least n are idle;
// on failure the ledger is left untouched and an *ErrAdmissionDenied is returned. Requests are never queued.
func (l *Ledger) Reserve(n uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idle < 1 || l.idle < n {
		return errors.WithStack(&qpperrors.ErrAdmissionDenied{Requested: n, Idle: l.idle})
	}
	l.idle -= n
	return nil
}

// Release returns n qubits to the idle pool.
func (l *Ledger) Release(n uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idle += n
}

// Resize replaces the pool with one of n qubits, all idle. Reservations in flight are not reconciled.
func (l *Ledger) Resize(n uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capacity = n
	l.idle = n
}

func (l *Ledger) Idle() uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idle
}

func (l *Ledger) Capacity() uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacity
}

// Snapshot returns idle and capacity read under one lock acquisition.
func (l *Ledger) Snapshot() (idle, capacity uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idle, l.capacity
}
