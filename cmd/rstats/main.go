// Package main is the rstats command: a one-shot dump of Raspberry Pi
// telemetry as JSON. It loads configuration, runs every query concurrently,
// and prints the snapshot to stdout. It is not a collector daemon; it runs
// each query once and exits.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	raspberrystats "github.com/perhp/raspberry-stats"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath  = pflag.StringP("config", "c", "", "Path to YAML configuration file")
	metric      = pflag.StringP("metric", "m", "", "Query a single metric (temperature, voltage, memory, disk, clocks, cpu, uptime, throttled, host)")
	timeout     = pflag.DurationP("timeout", "t", 0, "Per-query timeout (overrides config)")
	logLevel    = pflag.String("log-level", "", "Log level (debug, info, warn, error)")
	showVersion = pflag.BoolP("version", "v", false, "Show version and exit")
)

func main() {
	pflag.Parse()

	if *showVersion {
		fmt.Printf("rstats %s\n", version)
		os.Exit(0)
	}

	// Optional .env so RSTATS_* overrides work without exporting them.
	_ = godotenv.Load()

	cfg, err := raspberrystats.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *timeout > 0 {
		cfg.Timeout = raspberrystats.Duration{Duration: *timeout}
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	client := raspberrystats.New(cfg, logger)
	ctx := context.Background()

	if *metric != "" {
		if err := printMetric(ctx, client, *metric); err != nil {
			logger.Error("Query failed", zap.String("metric", *metric), zap.Error(err))
			os.Exit(1)
		}
		return
	}

	snap := collectSnapshot(ctx, client, logger)
	printJSON(snap)
}

// snapshot is the full telemetry dump. Nil fields mean the query failed;
// the failure is logged rather than aborting the dump.
type snapshot struct {
	Timestamp   time.Time                        `json:"timestamp"`
	Temperature *float64                         `json:"temperature"`
	Voltage     *float64                         `json:"voltage"`
	Memory      *raspberrystats.MemoryUsage      `json:"memory"`
	Disk        []raspberrystats.DiskUsage       `json:"disk"`
	Clocks      []raspberrystats.ClockFrequency  `json:"clocks"`
	CPUUsage    *float64                         `json:"cpu_usage"`
	UptimeMs    *int64                           `json:"uptime_ms"`
	Throttled   *raspberrystats.ThrottleState    `json:"throttled"`
	Host        *raspberrystats.HostInfo         `json:"host"`
}

// collectSnapshot runs every query concurrently and assembles whatever
// succeeded. Individual failures are logged as warnings and leave their
// field null.
func collectSnapshot(ctx context.Context, client *raspberrystats.Client, logger *zap.Logger) snapshot {
	snap := snapshot{Timestamp: time.Now().UTC()}
	warn := func(name string, err error) {
		logger.Warn("Query failed", zap.String("metric", name), zap.Error(err))
	}

	var g errgroup.Group
	g.Go(func() error {
		if v, err := client.Temperature(ctx); err != nil {
			warn("temperature", err)
		} else {
			snap.Temperature = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.Voltage(ctx); err != nil {
			warn("voltage", err)
		} else {
			snap.Voltage = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.Memory(ctx); err != nil {
			warn("memory", err)
		} else {
			snap.Memory = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.DiskUsage(ctx); err != nil {
			warn("disk", err)
		} else {
			snap.Disk = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.ClockFrequencies(ctx); err != nil {
			warn("clocks", err)
		} else {
			snap.Clocks = v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.CPUUsage(ctx); err != nil {
			warn("cpu", err)
		} else {
			snap.CPUUsage = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.Uptime(ctx); err != nil {
			warn("uptime", err)
		} else {
			snap.UptimeMs = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.Throttled(ctx); err != nil {
			warn("throttled", err)
		} else {
			snap.Throttled = &v
		}
		return nil
	})
	g.Go(func() error {
		if v, err := client.HostInfo(ctx); err != nil {
			warn("host", err)
		} else {
			snap.Host = &v
		}
		return nil
	})
	_ = g.Wait()

	return snap
}

// printMetric runs a single named query and prints the result as JSON.
func printMetric(ctx context.Context, client *raspberrystats.Client, name string) error {
	var value interface{}
	var err error
	switch name {
	case "temperature":
		value, err = client.Temperature(ctx)
	case "voltage":
		value, err = client.Voltage(ctx)
	case "memory":
		value, err = client.Memory(ctx)
	case "disk":
		value, err = client.DiskUsage(ctx)
	case "clocks":
		value, err = client.ClockFrequencies(ctx)
	case "cpu":
		value, err = client.CPUUsage(ctx)
	case "uptime":
		value, err = client.Uptime(ctx)
	case "throttled":
		value, err = client.Throttled(ctx)
	case "host":
		value, err = client.HostInfo(ctx)
	default:
		return fmt.Errorf("unknown metric %q", name)
	}
	if err != nil {
		return err
	}
	printJSON(value)
	return nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// initLogger creates a zap console logger at the configured level. Logs go
// to stderr so the JSON snapshot on stdout stays machine-readable.
func initLogger(cfg *raspberrystats.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)
	return zap.New(core)
}
