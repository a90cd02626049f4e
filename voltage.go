// Core voltage query — reads the core supply voltage reported by the
// firmware via "vcgencmd measure_volts". Output shape: volt=1.2000V
package raspberrystats

import (
	"context"
	"errors"
	"regexp"
	"strconv"
)

var voltageRe = regexp.MustCompile(`volt=(\d+\.?\d*)V`)

// Voltage returns the core supply voltage in volts.
func (c *Client) Voltage(ctx context.Context) (float64, error) {
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Vcgencmd, "measure_volts")
	if err != nil {
		return 0, err
	}
	return parseVoltage(out)
}

// VoltageAsync delivers the voltage reading to handler exactly once without
// blocking the caller.
func (c *Client) VoltageAsync(ctx context.Context, handler func(Result[float64])) {
	dispatch(ctx, c.Voltage, handler)
}

func parseVoltage(out string) (float64, error) {
	m := voltageRe.FindStringSubmatch(out)
	if m == nil {
		return 0, errors.New("failed to parse voltage")
	}
	volts, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.New("failed to parse voltage")
	}
	return volts, nil
}
