package raspberrystats

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeStub writes an executable shell script standing in for one of the
// external diagnostic commands.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestClient builds a Client whose config has been adjusted for the test.
func newTestClient(t *testing.T, mutate func(*Config)) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Timeout = Duration{5 * time.Second}
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg, nil)
}
