package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs process-level resource usage so a
// misbehaving provider stream or a leaking room shows up in the logs
// without external tooling.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, metricInterval: metricInterval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			cpu, err := proc.CPUPercent()
			if err != nil {
				w.log.Debug("Could not read cpu usage", "err", err)
				continue
			}
			ram, err := proc.MemoryPercent()
			if err != nil {
				w.log.Debug("Could not read ram usage", "err", err)
				continue
			}

			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)

			w.log.Info("Process telemetry",
				"cpu_percent", cpu,
				"ram_percent", ram,
				"alloc_mb", mem.Alloc/1024/1024,
				"goroutines", runtime.NumGoroutine(),
				"num_gc", mem.NumGC)
		}
	}
}
