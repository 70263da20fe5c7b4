// Package archive holds the MeasurementArchive: a fixed-capacity ring of the most recent per-shot
// measurements, kept durable through a Store.
package archive

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
	"github.com/armadaproject/qpp/pkg/api"
)

const (
	DefaultQubits   uint = 20
	DefaultCapacity uint = 20
)

// Options controls how an Archive persists itself.
type Options struct {
	// Deferred marks mutations dirty instead of writing the snapshot inside the critical section.
	// Flush must then be called periodically.
	Deferred bool
	// OnPersist, if set, is called after every snapshot write with its latency and result.
	OnPersist func(time.Duration, error)
}

// Status describes the dimensions and write cursor of an archive.
type Status struct {
	Qubits     uint
	Capacity   uint
	CurrentPos uint
}

type Archive struct {
	mu    sync.RWMutex
	snap  *Snapshot
	store Store
	opts  Options
	dirty bool
}

// New returns an empty archive with the given dimensions. A nil store keeps the archive in memory only.
func New(qubits, capacity uint, store Store, opts Options) (*Archive, error) {
	if err := validateDimensions(qubits, capacity); err != nil {
		return nil, err
	}
	snap := newSnapshot(qubits, capacity)
	return &Archive{snap: &snap, store: store, opts: opts}, nil
}

// Open rehydrates an archive from store. If the store holds no snapshot a fresh archive
// with the given dimensions is created.
func Open(store Store, qubits, capacity uint, opts Options) (*Archive, error) {
	snap, err := store.Load()
	if errors.Is(err, ErrSnapshotNotFound) {
		return New(qubits, capacity, store, opts)
	}
	if err != nil {
		return nil, &qpperrors.ErrPersistence{Op: "loading archive snapshot", Cause: err}
	}
	if err := snap.Validate(); err != nil {
		return nil, &qpperrors.ErrPersistence{Op: "loading archive snapshot", Cause: err}
	}
	return &Archive{snap: snap, store: store, opts: opts}, nil
}

// Append writes one vector per outcome starting at the current cursor and returns the cursor
// position that prevailed before the first write. The snapshot is persisted before the lock is
// released unless the archive was opened with deferred persistence. On a persist failure the
// in-memory writes are kept.
func (a *Archive) Append(outcomes ...string) (uint, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	initPos := a.snap.CurrentPos
	if len(outcomes) == 0 {
		return initPos, nil
	}
	for _, outcome := range outcomes {
		a.snap.Results[a.snap.CurrentPos] = toVector(outcome, a.snap.Qubits)
		a.snap.CurrentPos = (a.snap.CurrentPos + 1) % a.snap.Capacity
	}
	return initPos, a.mutated()
}

// Read returns a copy of the vector stored at pos.
func (a *Archive) Read(pos uint) (api.BitVector, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if pos >= a.snap.Capacity {
		return nil, &qpperrors.ErrOutOfRange{Name: "position", Value: pos, Limit: a.snap.Capacity}
	}
	return append(api.BitVector(nil), a.snap.Results[pos]...), nil
}

// ResizeQubits clears the archive and changes the width of every vector.
func (a *Archive) ResizeQubits(qubits uint) error {
	return a.Resize(&qubits, nil)
}

// ResizeCapacity clears the archive and changes the number of stored vectors.
func (a *Archive) ResizeCapacity(capacity uint) error {
	return a.Resize(nil, &capacity)
}

// Resize applies whichever dimensions are non-nil. Applying either clears the buffer and resets the cursor.
// Both nil is a no-op.
func (a *Archive) Resize(qubits, capacity *uint) error {
	if qubits == nil && capacity == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	newQubits, newCapacity := a.snap.Qubits, a.snap.Capacity
	if qubits != nil {
		newQubits = *qubits
	}
	if capacity != nil {
		newCapacity = *capacity
	}
	if err := validateDimensions(newQubits, newCapacity); err != nil {
		return err
	}
	snap := newSnapshot(newQubits, newCapacity)
	a.snap = &snap
	return a.mutated()
}

func (a *Archive) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		Qubits:     a.snap.Qubits,
		Capacity:   a.snap.Capacity,
		CurrentPos: a.snap.CurrentPos,
	}
}

// Snapshot returns a deep copy of the current state.
func (a *Archive) Snapshot() *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.deepCopy()
}

// Flush writes the snapshot if there are unpersisted mutations.
func (a *Archive) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.dirty {
		return nil
	}
	return a.persist()
}

func (a *Archive) mutated() error {
	a.dirty = true
	if a.opts.Deferred {
		return nil
	}
	return a.persist()
}

// persist must be called with the write lock held.
func (a *Archive) persist() error {
	if a.store == nil {
		a.dirty = false
		return nil
	}
	start := time.Now()
	err := a.store.Save(a.snap)
	if a.opts.OnPersist != nil {
		a.opts.OnPersist(time.Since(start), err)
	}
	if err != nil {
		return &qpperrors.ErrPersistence{Op: "persisting archive snapshot", Cause: err}
	}
	a.dirty = false
	return nil
}

// toVector right-aligns outcome into a vector of width qubits. Only the least significant
// qubits characters are consulted and any character other than '1' is stored as 0.
func toVector(outcome string, qubits uint) api.BitVector {
	v := make(api.BitVector, qubits)
	n := uint(len(outcome))
	for i := uint(0); i < qubits && i < n; i++ {
		if outcome[n-1-i] == '1' {
			v[qubits-1-i] = 1
		}
	}
	return v
}

func validateDimensions(qubits, capacity uint) error {
	if qubits == 0 {
		return &qpperrors.ErrInvalidArgument{Name: "qubits", Value: qubits, Message: "must be at least 1"}
	}
	if capacity == 0 {
		return &qpperrors.ErrInvalidArgument{Name: "capacity", Value: capacity, Message: "must be at least 1"}
	}
	return nil
}
