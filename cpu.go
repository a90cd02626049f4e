// CPU utilization query — runs a top pipeline that emits one utilization
// sample per line at a fixed cadence, then averages the samples.
package raspberrystats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CPUUsage returns the mean CPU utilization (0-100) across the configured
// number of samples. The sampling is done by the external pipeline, so the
// call blocks for roughly Samples x SampleInterval.
func (c *Client) CPUUsage(ctx context.Context) (float64, error) {
	pipeline := fmt.Sprintf(`top -b -n %d -d %g | grep "Cpu(s)" | awk '{print $2}'`,
		c.cfg.CPU.Samples, c.cfg.CPU.SampleInterval.Seconds())
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Shell, "-c", pipeline)
	if err != nil {
		return 0, err
	}
	usage, err := parseCPUUsage(out)
	if err != nil {
		return 0, err
	}
	c.logger.Debug("CPU usage collected", zap.Float64("percent", usage))
	return usage, nil
}

// CPUUsageAsync delivers the CPU usage reading to handler exactly once
// without blocking the caller.
func (c *Client) CPUUsageAsync(ctx context.Context, handler func(Result[float64])) {
	dispatch(ctx, c.CPUUsage, handler)
}

// parseCPUUsage averages one float per non-blank line.
func parseCPUUsage(out string) (float64, error) {
	var sum float64
	var count int
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sample, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, errors.New("failed to parse CPU usage")
		}
		sum += sample
		count++
	}
	if count == 0 {
		return 0, errors.New("no CPU usage data retrieved")
	}
	return sum / float64(count), nil
}
