// Uptime query — reads /proc/uptime through awk, which pre-scales the
// first field from seconds to integer milliseconds.
package raspberrystats

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// uptimeScript emits a single integer: uptime in milliseconds.
const uptimeScript = `awk '{printf "%d", $1 * 1000}' /proc/uptime`

// Uptime returns the system uptime in milliseconds.
func (c *Client) Uptime(ctx context.Context) (int64, error) {
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Shell, "-c", uptimeScript)
	if err != nil {
		return 0, err
	}
	return parseUptime(out)
}

// UptimeAsync delivers the uptime reading to handler exactly once without
// blocking the caller.
func (c *Client) UptimeAsync(ctx context.Context, handler func(Result[int64])) {
	dispatch(ctx, c.Uptime, handler)
}

func parseUptime(out string) (int64, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, errors.New("failed to parse uptime")
	}
	return millis, nil
}
