package raspberrystats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const dfOutput = "" +
	"Filesystem     1K-blocks    Used Available Use% Mounted on\n" +
	"/dev/root       30450144 4526764  24650676  16% /\n" +
	"/dev/mmcblk0p1    258095   49324    208771  20% /boot\n"

func TestParseDiskUsage(t *testing.T) {
	entries, err := parseDiskUsage(dfOutput)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, DiskUsage{
		Filesystem:    "/dev/root",
		OneKBlocks:    30450144,
		Used:          4526764,
		Available:     24650676,
		UsePercentage: 16,
		MountedOn:     "/",
	}, entries[0])
	require.Equal(t, "/boot", entries[1].MountedOn)
}

func TestParseDiskUsage_HeaderOnly(t *testing.T) {
	_, err := parseDiskUsage("Filesystem     1K-blocks    Used Available Use% Mounted on\n")
	require.EqualError(t, err, "no disk usage data found")
}

func TestParseDiskUsage_BlankLinesIgnored(t *testing.T) {
	entries, err := parseDiskUsage(dfOutput + "\n\n")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestParseDiskUsage_MountWithSpaces(t *testing.T) {
	out := "Filesystem 1K-blocks Used Available Use% Mounted on\n" +
		"/dev/sda1 1000 500 500 50% /media/usb drive\n"
	entries, err := parseDiskUsage(out)
	require.NoError(t, err)
	require.Equal(t, "/media/usb drive", entries[0].MountedOn)
}

func TestParseDiskUsage_TooFewFields(t *testing.T) {
	_, err := parseDiskUsage("header\n/dev/sda1 1000 500\n")
	require.EqualError(t, err, "failed to parse disk usage")
}

func TestDiskUsage(t *testing.T) {
	stub := writeStub(t, `printf 'Filesystem 1K-blocks Used Available Use%% Mounted on\n/dev/root 1000 160 840 16%% /\n'`)
	client := newTestClient(t, func(cfg *Config) {
		cfg.Commands.Df = stub
	})

	entries, err := client.DiskUsage(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 16.0, entries[0].UsePercentage)
}
