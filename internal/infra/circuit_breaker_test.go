package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)
	boom := errors.New("smtp down")
	fail := func() error { return boom }

	require.ErrorIs(t, cb.Call(fail), boom)
	require.ErrorIs(t, cb.Call(fail), boom)
	// Third call is rejected without invoking fn.
	invoked := false
	err := cb.Call(func() error { invoked = true; return nil })
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, invoked)
}

func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Millisecond)
	require.Error(t, cb.Call(func() error { return errors.New("x") }))
	require.ErrorIs(t, cb.Call(func() error { return nil }), ErrCircuitOpen)

	time.Sleep(5 * time.Millisecond)
	// After the cooldown one probe goes through and success closes it.
	require.NoError(t, cb.Call(func() error { return nil }))
	require.NoError(t, cb.Call(func() error { return nil }))
}

func TestCircuitBreakerSuccessResetsCounter(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)
	require.Error(t, cb.Call(func() error { return errors.New("x") }))
	require.NoError(t, cb.Call(func() error { return nil }))
	require.Error(t, cb.Call(func() error { return errors.New("x") }))
	// Still closed: the success in between reset the streak.
	require.NoError(t, cb.Call(func() error { return nil }))
}
