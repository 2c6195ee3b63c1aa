package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/internal/config"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/internal/logging"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/exporter"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/summary"
)

var (
	configPath = flag.String("config", "/etc/tclog/config.yaml", "Path to configuration file")
	logPath    = flag.String("log", "", "Collector JSON-lines log to report on (overrides config)")
)

type statsSink interface {
	UpdateStats([]summary.IPStats)
}

func reload(agg *summary.Aggregator, path string, sinks ...statsSink) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stats, err := agg.Aggregate(f)
	if err != nil {
		return fmt.Errorf("failed to aggregate %s: %w", path, err)
	}

	for _, s := range sinks {
		s.UpdateStats(stats)
	}
	slog.Info("Reloaded log", "path", path, "ips", len(stats))
	return nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(os.Stdout, cfg.LogLevel)

	if *logPath != "" {
		cfg.Report.LogPath = *logPath
	}

	slog.Info("Starting tclog-report", "log", cfg.Report.LogPath, "pollHz", cfg.Report.PollHz)

	agg := summary.NewAggregator(cfg.Report.PollHz, cfg.Report.MinPackets)

	apiServer := exporter.NewAPIServer(cfg.Report.APIKey)
	sinks := []statsSink{apiServer}

	go func() {
		slog.Info("Starting API server", "address", cfg.Report.ServerAddr)
		if err := apiServer.StartServer(cfg.Report.ServerAddr); err != nil {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	if cfg.Report.PrometheusAddr != "" {
		promExporter := exporter.NewPrometheusExporter()
		sinks = append(sinks, promExporter)
		go func() {
			slog.Info("Starting Prometheus server", "address", cfg.Report.PrometheusAddr)
			if err := promExporter.StartServer(cfg.Report.PrometheusAddr); err != nil {
				log.Fatalf("Failed to start Prometheus server: %v", err)
			}
		}()
	}

	if err := reload(agg, cfg.Report.LogPath, sinks...); err != nil {
		slog.Error("Initial load failed", "error", err)
	}

	reloadTicker := time.NewTicker(cfg.Report.ReloadInterval)
	defer reloadTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			slog.Info("Received shutdown signal, exiting")
			return

		case <-reloadTicker.C:
			if err := reload(agg, cfg.Report.LogPath, sinks...); err != nil {
				slog.Error("Error reloading log", "error", err)
			}
		}
	}
}
