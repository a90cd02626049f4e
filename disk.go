// Disk usage query — parses df(1) output into one entry per mounted
// filesystem. The header row is discarded; each remaining row carries six
// positional fields, with the use-percentage field stripped of its trailing
// percent sign.
package raspberrystats

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DiskUsage holds one df(1) row.
type DiskUsage struct {
	Filesystem    string  `json:"filesystem"`
	OneKBlocks    float64 `json:"one_k_blocks"`
	Used          float64 `json:"used"`
	Available     float64 `json:"available"`
	UsePercentage float64 `json:"use_percentage"`
	MountedOn     string  `json:"mounted_on"`
}

// DiskUsage returns usage for every mounted filesystem df reports. An
// output with no data rows is a failure, never an empty success.
func (c *Client) DiskUsage(ctx context.Context) ([]DiskUsage, error) {
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Df)
	if err != nil {
		return nil, err
	}
	entries, err := parseDiskUsage(out)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Disk usage collected", zap.Int("filesystems", len(entries)))
	return entries, nil
}

// DiskUsageAsync delivers the disk usage reading to handler exactly once
// without blocking the caller.
func (c *Client) DiskUsageAsync(ctx context.Context, handler func(Result[[]DiskUsage])) {
	dispatch(ctx, c.DiskUsage, handler)
}

func parseDiskUsage(out string) ([]DiskUsage, error) {
	var entries []DiskUsage
	for i, line := range strings.Split(out, "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, errors.New("failed to parse disk usage")
		}

		blocks, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.New("failed to parse disk usage")
		}
		used, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.New("failed to parse disk usage")
		}
		available, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errors.New("failed to parse disk usage")
		}
		usePct, err := strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64)
		if err != nil {
			return nil, errors.New("failed to parse disk usage")
		}

		entries = append(entries, DiskUsage{
			Filesystem:    fields[0],
			OneKBlocks:    blocks,
			Used:          used,
			Available:     available,
			UsePercentage: usePct,
			// Mount points may contain spaces; rejoin the remainder.
			MountedOn: strings.Join(fields[5:], " "),
		})
	}
	if len(entries) == 0 {
		return nil, errors.New("no disk usage data found")
	}
	return entries, nil
}
