package oneshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendThenRecv(t *testing.T) {
	tx, rx := New[string]()
	require.NoError(t, tx.Send("01"))
	assert.True(t, tx.Sent())

	v, err := rx.Recv()
	require.NoError(t, err)
	assert.Equal(t, "01", v)
}

func TestRecvBlocksUntilSend(t *testing.T) {
	tx, rx := New[int]()
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = tx.Send(42)
	}()
	v, err := rx.Recv()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestSecondSendFails(t *testing.T) {
	tx, rx := New[int]()
	require.NoError(t, tx.Send(1))
	assert.ErrorIs(t, tx.Send(2), ErrAlreadySent)

	v, err := rx.Recv()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestCloseWithoutSend(t *testing.T) {
	tx, rx := New[int]()
	go tx.Close()
	_, err := rx.Recv()
	assert.ErrorIs(t, err, ErrSenderDropped)
	assert.False(t, tx.Sent())
	assert.ErrorIs(t, tx.Send(1), ErrAlreadySent)
}

func TestCloseAfterSendKeepsValue(t *testing.T) {
	tx, rx := New[int]()
	require.NoError(t, tx.Send(7))
	tx.Close()
	v, err := rx.Recv()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestSecondRecvFails(t *testing.T) {
	tx, rx := New[int]()
	require.NoError(t, tx.Send(7))
	_, err := rx.Recv()
	require.NoError(t, err)
	_, err = rx.Recv()
	assert.ErrorIs(t, err, ErrAlreadyReceived)
}
