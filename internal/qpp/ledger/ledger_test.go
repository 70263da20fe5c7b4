package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/qpp/internal/common/qpperrors"
)

func TestReserve(t *testing.T) {
	tests := map[string]struct {
		capacity     uint
		reserved     uint
		request      uint
		expectDenied bool
		expectedIdle uint
	}{
		"fits":                 {capacity: 20, request: 5, expectedIdle: 15},
		"exactly all idle":     {capacity: 20, request: 20, expectedIdle: 0},
		"more than idle":       {capacity: 20, reserved: 18, request: 3, expectDenied: true, expectedIdle: 2},
		"zero units, one idle": {capacity: 20, reserved: 19, request: 0, expectedIdle: 1},
		"zero units, no idle":  {capacity: 20, reserved: 20, request: 0, expectDenied: true, expectedIdle: 0},
		"more than capacity":   {capacity: 4, request: 5, expectDenied: true, expectedIdle: 4},
		"empty pool":           {capacity: 0, request: 0, expectDenied: true, expectedIdle: 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			l := New(tc.capacity)
			if tc.reserved > 0 {
				require.NoError(t, l.Reserve(tc.reserved))
			}
			err := l.Reserve(tc.request)
			if tc.expectDenied {
				var denied *qpperrors.ErrAdmissionDenied
				require.ErrorAs(t, err, &denied)
				assert.Equal(t, tc.request, denied.Requested)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectedIdle, l.Idle())
			assert.Equal(t, tc.capacity, l.Capacity())
		})
	}
}

func TestReleaseRestoresIdle(t *testing.T) {
	l := New(10)
	require.NoError(t, l.Reserve(4))
	require.NoError(t, l.Reserve(6))
	assert.Equal(t, uint(0), l.Idle())

	l.Release(4)
	l.Release(6)
	idle, capacity := l.Snapshot()
	assert.Equal(t, uint(10), idle)
	assert.Equal(t, uint(10), capacity)
}

func TestResize(t *testing.T) {
	l := New(10)
	require.NoError(t, l.Reserve(7))
	l.Resize(4)
	idle, capacity := l.Snapshot()
	assert.Equal(t, uint(4), idle)
	assert.Equal(t, uint(4), capacity)
}

func TestConcurrentReservationsConserveUnits(t *testing.T) {
	const capacity = 8
	l := New(capacity)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(units uint) {
			defer wg.Done()
			if err := l.Reserve(units); err != nil {
				return
			}
			idle, total := l.Snapshot()
			assert.LessOrEqual(t, idle, total)
			l.Release(units)
		}(uint(i%3 + 1))
	}
	wg.Wait()

	assert.Equal(t, uint(capacity), l.Idle())
}
