package raspberrystats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const freeOutput = "" +
	"               total        used        free      shared  buff/cache   available\n" +
	"Mem:         3885396     1510372      372060       88560     2002964     2143192\n" +
	"Swap:         102396       28928       73468\n"

func TestParseMemoryUsage_RoundTrip(t *testing.T) {
	got, err := parseMemoryUsage(freeOutput)
	require.NoError(t, err)
	require.Equal(t, MemoryUsage{
		Total:     3885396,
		Used:      1510372,
		Free:      372060,
		Shared:    88560,
		BuffCache: 2002964,
		Available: 2143192,
	}, got)
}

func TestParseMemoryUsage_MissingRow(t *testing.T) {
	_, err := parseMemoryUsage("               total        used        free\n")
	require.EqualError(t, err, "unable to parse memory usage")
}

func TestParseMemoryUsage_TooFewFields(t *testing.T) {
	_, err := parseMemoryUsage("header\nMem: 1 2 3\n")
	require.EqualError(t, err, "unable to parse memory usage")
}

func TestMemory(t *testing.T) {
	stub := writeStub(t, `printf 'header\nMem: 100 40 60 5 20 55\n'`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Free = stub
	})

	usage, err := client.Memory(context.Background())
	require.NoError(t, err)
	require.Equal(t, MemoryUsage{Total: 100, Used: 40, Free: 60, Shared: 5, BuffCache: 20, Available: 55}, usage)
}
