// Memory usage query — parses the numeric row of free(1) output. The second
// line holds six positional fields after the "Mem:" label; the unit is
// whatever free was configured to report (kibibytes by default).
package raspberrystats

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// MemoryUsage holds the six fields of free(1)'s memory row, in the order
// the command reports them.
type MemoryUsage struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Free      float64 `json:"free"`
	Shared    float64 `json:"shared"`
	BuffCache float64 `json:"buff_cache"`
	Available float64 `json:"available"`
}

// Memory returns current memory usage.
func (c *Client) Memory(ctx context.Context) (MemoryUsage, error) {
	out, err := c.runner.FirstOutput(ctx, c.cfg.Commands.Free)
	if err != nil {
		return MemoryUsage{}, err
	}
	return parseMemoryUsage(out)
}

// MemoryAsync delivers the memory reading to handler exactly once without
// blocking the caller.
func (c *Client) MemoryAsync(ctx context.Context, handler func(Result[MemoryUsage])) {
	dispatch(ctx, c.Memory, handler)
}

// parseMemoryUsage reads the second line of the report, drops the row label,
// and parses the next six tokens positionally.
func parseMemoryUsage(out string) (MemoryUsage, error) {
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return MemoryUsage{}, errors.New("unable to parse memory usage")
	}
	fields := strings.Fields(lines[1])
	if len(fields) < 7 {
		return MemoryUsage{}, errors.New("unable to parse memory usage")
	}

	var values [6]float64
	for i := range values {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return MemoryUsage{}, errors.New("unable to parse memory usage")
		}
		values[i] = v
	}

	return MemoryUsage{
		Total:     values[0],
		Used:      values[1],
		Free:      values[2],
		Shared:    values[3],
		BuffCache: values[4],
		Available: values[5],
	}, nil
}
