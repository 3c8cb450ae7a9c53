package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingCall() error { return errors.New("boom") }
func passingCall() error { return nil }

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		FailureThreshold: 3,
		Timeout:          time.Minute,
	})

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(context.Background(), failingCall))
	}
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(context.Background(), passingCall)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		FailureThreshold: 2,
		SuccessThreshold: 2,
		MaxRequests:      2,
		Timeout:          10 * time.Millisecond,
	})

	for i := 0; i < 2; i++ {
		assert.Error(t, cb.Execute(context.Background(), failingCall))
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), passingCall))
	require.NoError(t, cb.Execute(context.Background(), passingCall))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		FailureThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})

	assert.Error(t, cb.Execute(context.Background(), failingCall))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Error(t, cb.Execute(context.Background(), failingCall))
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerStaysClosedOnSuccesses(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 2})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(context.Background(), passingCall))
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerNotifiesStateChanges(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker("test", Config{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	assert.Error(t, cb.Execute(context.Background(), failingCall))
	assert.Equal(t, []string{"closed->open"}, transitions)
}
