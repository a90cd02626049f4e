// Throttle state query — decodes the bitmask reported by
// "vcgencmd get_throttled". Output shape: throttled=0x50005
//
// Bit layout (firmware-defined): bits 0-3 are the current conditions,
// bits 16-19 mirror them as has-occurred-since-boot flags.
package raspberrystats

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// ThrottleState holds the decoded throttle bitmask.
type ThrottleState struct {
	UnderVoltage          bool `json:"under_voltage"`
	FrequencyCapped       bool `json:"frequency_capped"`
	Throttled             bool `json:"throttled"`
	SoftTempLimit         bool `json:"soft_temp_limit"`
	UnderVoltageOccurred  bool `json:"under_voltage_occurred"`
	FrequencyCapOccurred  bool `json:"frequency_cap_occurred"`
	ThrottledOccurred     bool `json:"throttled_occurred"`
	SoftTempLimitOccurred bool `json:"soft_temp_limit_occurred"`

	// Raw is the undecoded bitmask as reported by the firmware.
	Raw uint32 `json:"raw"`
}

var throttledRe = regexp.MustCompile(`throttled=0x([0-9a-fA-F]+)`)

// Throttled returns the board's current and since-boot throttle conditions.
func (c *Client) Throttled(ctx context.Context) (ThrottleState, error) {
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Vcgencmd, "get_throttled")
	if err != nil {
		return ThrottleState{}, err
	}
	state, err := parseThrottleState(out)
	if err != nil {
		return ThrottleState{}, err
	}
	if state.Raw != 0 {
		c.logger.Debug("Throttle conditions present",
			zap.Uint32("raw", state.Raw))
	}
	return state, nil
}

// ThrottledAsync delivers the throttle state to handler exactly once
// without blocking the caller.
func (c *Client) ThrottledAsync(ctx context.Context, handler func(Result[ThrottleState])) {
	dispatch(ctx, c.Throttled, handler)
}

func parseThrottleState(out string) (ThrottleState, error) {
	m := throttledRe.FindStringSubmatch(out)
	if m == nil {
		return ThrottleState{}, errors.New("failed to parse throttle state")
	}
	raw, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return ThrottleState{}, errors.New("failed to parse throttle state")
	}
	mask := uint32(raw)
	return ThrottleState{
		UnderVoltage:          mask&(1<<0) != 0,
		FrequencyCapped:       mask&(1<<1) != 0,
		Throttled:             mask&(1<<2) != 0,
		SoftTempLimit:         mask&(1<<3) != 0,
		UnderVoltageOccurred:  mask&(1<<16) != 0,
		FrequencyCapOccurred:  mask&(1<<17) != 0,
		ThrottledOccurred:     mask&(1<<18) != 0,
		SoftTempLimitOccurred: mask&(1<<19) != 0,
		Raw:                   mask,
	}, nil
}
