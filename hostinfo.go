// Host info query — identifies the board and its OS. Unlike the other
// metrics this does not shell out; gopsutil reads the information directly.
package raspberrystats

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"go.uber.org/zap"
)

// HostInfo holds board and OS identification plus load averages.
type HostInfo struct {
	Hostname        string  `json:"hostname"`
	Platform        string  `json:"platform"`
	PlatformVersion string  `json:"platform_version"`
	KernelVersion   string  `json:"kernel_version"`
	Arch            string  `json:"arch"`
	Load1           float64 `json:"load_1m"`
	Load5           float64 `json:"load_5m"`
	Load15          float64 `json:"load_15m"`
}

// HostInfo returns host identification and 1/5/15-minute load averages.
// Missing load averages are reported as zeros, not as a failure.
func (c *Client) HostInfo(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, fmt.Errorf("reading host info: %w", err)
	}

	result := HostInfo{
		Hostname:        info.Hostname,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Arch:            info.KernelArch,
	}

	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		c.logger.Debug("Load averages not available", zap.Error(err))
		return result, nil
	}
	result.Load1 = avg.Load1
	result.Load5 = avg.Load5
	result.Load15 = avg.Load15
	return result, nil
}

// HostInfoAsync delivers the host info to handler exactly once without
// blocking the caller.
func (c *Client) HostInfoAsync(ctx context.Context, handler func(Result[HostInfo])) {
	dispatch(ctx, c.HostInfo, handler)
}
