package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/pkg/circuitbreaker"
)

func TestCircuitBreaker(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")
	errFailure := errors.New("failure")
	fail := func() (interface{}, error) { return nil, errFailure }

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(fail)
		require.ErrorIs(t, err, errFailure)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) { return nil, nil })
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreakerStaysClosed(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")
	errFailure := errors.New("failure")

	for i := 0; i < 3*circuitbreaker.MaxNumOfFailingRequests; i++ {
		//nolint
		cb.Execute(func() (interface{}, error) {
			if i%2 == 0 {
				return nil, errFailure
			}
			return nil, nil
		})
	}
	require.Equal(t, gobreaker.StateClosed, cb.State())
}
