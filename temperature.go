// SoC temperature query — reads the chip temperature reported by the
// firmware via "vcgencmd measure_temp". Output shape: temp=42.8'C
package raspberrystats

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

var temperatureRe = regexp.MustCompile(`temp=(\d+\.?\d*)'C`)

// Temperature returns the SoC temperature in degrees Celsius.
func (c *Client) Temperature(ctx context.Context) (float64, error) {
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Vcgencmd, "measure_temp")
	if err != nil {
		return 0, err
	}
	temp, err := parseTemperature(out)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("Temperature collected", zap.Float64("temp_c", temp))
	return temp, nil
}

// TemperatureAsync delivers the temperature reading to handler exactly once
// without blocking the caller.
func (c *Client) TemperatureAsync(ctx context.Context, handler func(Result[float64])) {
	dispatch(ctx, c.Temperature, handler)
}

// parseTemperature extracts the Celsius value from firmware output.
func parseTemperature(out string) (float64, error) {
	m := temperatureRe.FindStringSubmatch(out)
	if m == nil {
		return 0, errors.New("failed to parse temperature")
	}
	temp, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.New("failed to parse temperature")
	}
	return temp, nil
}
