// Clock frequency queries — read per-clock frequencies from the firmware
// via "vcgencmd measure_clock <name>". Output shape: frequency(48)=600000000
package raspberrystats

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Clock identifies one of the firmware's measurable clocks.
type Clock string

// The firmware's measurable clocks. This set is fixed configuration; the
// firmware rejects names outside it.
const (
	ClockArm   Clock = "arm"
	ClockCore  Clock = "core"
	ClockH264  Clock = "h264"
	ClockISP   Clock = "isp"
	ClockV3D   Clock = "v3d"
	ClockUART  Clock = "uart"
	ClockPWM   Clock = "pwm"
	ClockEMMC  Clock = "emmc"
	ClockPixel Clock = "pixel"
	ClockVEC   Clock = "vec"
	ClockHDMI  Clock = "hdmi"
	ClockDPI   Clock = "dpi"
)

var allClocks = [...]Clock{
	ClockArm, ClockCore, ClockH264, ClockISP, ClockV3D, ClockUART,
	ClockPWM, ClockEMMC, ClockPixel, ClockVEC, ClockHDMI, ClockDPI,
}

// Clocks returns the full set of measurable clocks.
func Clocks() []Clock {
	out := make([]Clock, len(allClocks))
	copy(out, allClocks[:])
	return out
}

func (c Clock) valid() bool {
	for _, known := range allClocks {
		if c == known {
			return true
		}
	}
	return false
}

// ClockFrequency holds one clock's reading. A nil Frequency means the
// firmware reported no data for that clock; the batch query still succeeds.
type ClockFrequency struct {
	Clock     Clock  `json:"clock"`
	Frequency *int64 `json:"frequency"`
}

var clockRe = regexp.MustCompile(`frequency\((\d+)\)=(\d+)`)

// ClockFrequency returns the frequency of one clock in hertz. The clock
// must belong to the set returned by Clocks.
func (c *Client) ClockFrequency(ctx context.Context, clock Clock) (int64, error) {
	if !clock.valid() {
		return 0, fmt.Errorf("unknown clock %q", clock)
	}
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Vcgencmd, "measure_clock", string(clock))
	if err != nil {
		return 0, err
	}
	return parseClockFrequency(clock, out)
}

// ClockFrequencyAsync delivers one clock's frequency to handler exactly
// once without blocking the caller.
func (c *Client) ClockFrequencyAsync(ctx context.Context, clock Clock, handler func(Result[int64])) {
	dispatch(ctx, func(ctx context.Context) (int64, error) {
		return c.ClockFrequency(ctx, clock)
	}, handler)
}

// ClockFrequencies measures every clock concurrently, one sub-process per
// clock, and waits for all of them to exit. A clock whose output cannot be
// matched (or whose process signals an error) gets a nil Frequency rather
// than failing the batch. Entries are appended in completion order, which
// need not match the order of Clocks.
func (c *Client) ClockFrequencies(ctx context.Context) ([]ClockFrequency, error) {
	all := Clocks()
	if len(all) == 0 {
		return nil, errors.New("no clocks to measure")
	}

	results := make([]ClockFrequency, 0, len(all))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, clock := range all {
		wg.Add(1)
		go func(clock Clock) {
			defer wg.Done()
			entry := ClockFrequency{Clock: clock}
			out, err := c.runner.WaitExit(ctx, c.cfg.Commands.Vcgencmd, "measure_clock", string(clock))
			if err != nil {
				c.logger.Debug("Clock measurement failed",
					zap.String("clock", string(clock)),
					zap.Error(err))
			} else if hz, perr := parseClockFrequency(clock, out); perr == nil {
				entry.Frequency = &hz
			}
			mu.Lock()
			results = append(results, entry)
			mu.Unlock()
		}(clock)
	}

	wg.Wait()
	return results, nil
}

// ClockFrequenciesAsync delivers the batch reading to handler exactly once
// without blocking the caller.
func (c *Client) ClockFrequenciesAsync(ctx context.Context, handler func(Result[[]ClockFrequency])) {
	dispatch(ctx, c.ClockFrequencies, handler)
}

func parseClockFrequency(clock Clock, out string) (int64, error) {
	m := clockRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("failed to parse %s clock frequency", clock)
	}
	hz, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s clock frequency", clock)
	}
	return hz, nil
}
