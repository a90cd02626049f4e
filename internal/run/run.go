// Package run executes external diagnostic commands and collects their
// output. It provides two completion policies: FirstOutput resolves on the
// first signal from the child process (first stdout chunk, first stderr
// chunk, or launch failure) without waiting for exit, and WaitExit collects
// the full standard output after the process terminates.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout marks queries that exceeded their deadline before the external
// command produced a signal. Detect it with errors.Is.
var ErrTimeout = errors.New("timed out")

// readChunkSize is the buffer size for the first-chunk read on each stream.
const readChunkSize = 32 * 1024

// Runner launches external commands with a default timeout applied when the
// caller's context carries no deadline.
type Runner struct {
	logger  *zap.Logger
	timeout time.Duration
}

// New creates a Runner. Pass nil for no logging; a zero timeout disables the
// default deadline.
func New(logger *zap.Logger, timeout time.Duration) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, timeout: timeout}
}

// signal is the outcome of a single completion event. Exactly one signal
// decides a FirstOutput call.
type signal struct {
	text string
	err  error
}

// FirstOutput starts name with args and returns on the first of: a chunk of
// standard output (success), a chunk of standard error (failure carrying the
// stderr text), end of both streams with no data (failure), or context
// expiry. It does not wait for the process to exit; the process is killed
// and reaped on return.
func (r *Runner) FirstOutput(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("opening stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("opening stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting %s: %w", name, err)
	}
	r.logger.Debug("Command started",
		zap.String("command", name),
		zap.Strings("args", args))

	// Single-assignment latch: the first signal wins, later ones are dropped.
	first := make(chan signal, 1)
	report := func(s signal) {
		select {
		case first <- s:
		default:
		}
	}

	var streams sync.WaitGroup
	streams.Add(2)
	go r.readFirstChunk(stdout, name, false, report, &streams)
	go r.readFirstChunk(stderr, name, true, report, &streams)

	go func() {
		// Both streams ended without delivering data: the command produced
		// no output. Dropped by the latch if a chunk already arrived.
		streams.Wait()
		report(signal{err: fmt.Errorf("%s produced no output", name)})
		_ = cmd.Wait()
	}()

	select {
	case s := <-first:
		if s.err != nil {
			return "", s.err
		}
		return s.text, nil
	case <-ctx.Done():
		return "", r.contextError(ctx, name)
	}
}

// readFirstChunk reads one chunk from the stream and reports it, then
// returns. An EOF before any data simply ends the stream's participation.
func (r *Runner) readFirstChunk(rd io.Reader, name string, isStderr bool, report func(signal), streams *sync.WaitGroup) {
	defer streams.Done()
	buf := make([]byte, readChunkSize)
	for {
		n, err := rd.Read(buf)
		if n > 0 {
			text := string(buf[:n])
			if isStderr {
				report(signal{err: fmt.Errorf("%s: %s", name, strings.TrimSpace(text))})
			} else {
				report(signal{text: text})
			}
			return
		}
		if err != nil {
			return
		}
	}
}

// WaitExit runs name with args to completion and returns its full standard
// output. A non-empty stderr with empty stdout is reported as a failure even
// on a zero exit status.
func (r *Runner) WaitExit(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", r.contextError(ctx, name)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %s", name, msg)
		}
		return "", fmt.Errorf("running %s: %w", name, err)
	}
	if stdout.Len() == 0 {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %s", name, msg)
		}
	}
	return stdout.String(), nil
}

// withDeadline applies the Runner's default timeout when the caller did not
// set one.
func (r *Runner) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// contextError translates context expiry into the timeout failure kind.
func (r *Runner) contextError(ctx context.Context, name string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", name, ErrTimeout)
	}
	return ctx.Err()
}
