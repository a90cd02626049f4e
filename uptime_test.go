package raspberrystats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUptime(t *testing.T) {
	millis, err := parseUptime("123456\n")
	require.NoError(t, err)
	require.Equal(t, int64(123456), millis)
}

func TestParseUptime_NonNumeric(t *testing.T) {
	_, err := parseUptime("up 3 days\n")
	require.EqualError(t, err, "failed to parse uptime")
}

func TestUptime(t *testing.T) {
	stub := writeStub(t, `printf '123456'`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Shell = stub
	})

	millis, err := client.Uptime(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(123456), millis)
}
