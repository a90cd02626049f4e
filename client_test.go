package raspberrystats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAsyncDeliversSameOutcome(t *testing.T) {
	stub := writeStub(t, `echo "temp=42.8'C"`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Vcgencmd = stub
	})
	ctx := context.Background()

	syncTemp, syncErr := client.Temperature(ctx)

	results := make(chan Result[float64], 2)
	client.TemperatureAsync(ctx, func(r Result[float64]) {
		results <- r
	})

	r := <-results
	require.Equal(t, syncErr, r.Err)
	require.Equal(t, syncTemp, r.Value)

	// The handler must fire exactly once.
	select {
	case <-results:
		t.Fatal("handler invoked more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAsyncDeliversFailure(t *testing.T) {
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Vcgencmd = "/nonexistent/vcgencmd"
	})

	results := make(chan Result[float64], 1)
	client.TemperatureAsync(context.Background(), func(r Result[float64]) {
		results <- r
	})

	r := <-results
	require.Error(t, r.Err)
	require.Zero(t, r.Value)
}

func TestIdempotentQueries(t *testing.T) {
	stub := writeStub(t, `printf 'header\nMem: 100 40 60 5 20 55\n'`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Free = stub
	})
	ctx := context.Background()

	first, err := client.Memory(ctx)
	require.NoError(t, err)
	second, err := client.Memory(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDefaultTimeoutSurfaces(t *testing.T) {
	stub := writeStub(t, `sleep 5`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Vcgencmd = stub
		cfg.Timeout = Duration{100 * time.Millisecond}
	})

	_, err := client.Temperature(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTimeout), "want ErrTimeout, got %v", err)
}

func TestCallerDeadlineWins(t *testing.T) {
	stub := writeStub(t, `sleep 5`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Vcgencmd = stub
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Temperature(ctx)
	require.True(t, errors.Is(err, ErrTimeout), "want ErrTimeout, got %v", err)
	require.Less(t, time.Since(start), 2*time.Second)
}
