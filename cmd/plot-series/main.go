package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/internal/config"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/internal/logging"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/chart"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/series"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	output     = flag.String("output", "", "Plot output path (overrides config)")
	show       = flag.Bool("show", true, "Open the saved plot in the default viewer")
)

const (
	xLabel = "Time bins of a 0.5-second window"
	yLabel = "Million PPS"
	yMinor = 0.2
)

// usage names one file per configured run. The old script printed
// <file_200Hz> <file_2000Hz> <file_2000Hz> <file_4000Hz> while scaling by
// 20/200/2000/4000 Hz.
func usage(runs []config.RunConfig) string {
	var b strings.Builder
	b.WriteString("Usage: plot-series")
	for _, run := range runs {
		fmt.Fprintf(&b, " <file_%dHz>", run.FrequencyHz)
	}
	return b.String()
}

// printStats writes the packet statistics of lines first..last of every
// file.
func printStats(w io.Writer, files []*series.File, first, last int) error {
	for _, f := range files {
		fmt.Fprintln(w, f.Path)
		fmt.Fprintln(w, "time_id, bins, sum_packets, min_packets, max_packets")
		for id := first; id <= last; id++ {
			st, err := f.LineStats(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, st)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// buildPanels extracts line from every file and scales the configured
// window of its packet bins to million packets per second.
func buildPanels(files []*series.File, runs []config.RunConfig, line int) ([]chart.Panel, error) {
	panels := make([]chart.Panel, 0, len(runs))

	for i, run := range runs {
		_, packets, err := files[i].Extract(line)
		if err != nil {
			return nil, err
		}

		values, err := series.Window(packets, run.Offset, run.Window, run.FrequencyHz)
		if err != nil {
			return nil, fmt.Errorf("run %d (%s): %w", i+1, files[i].Path, err)
		}

		panels = append(panels, chart.Panel{
			Title:  fmt.Sprintf("Run %d: polling at %d Hz", i+1, run.FrequencyHz),
			XLabel: xLabel,
			YLabel: yLabel,
			Values: values,
			XStep:  run.XTickStep,
			YMinor: yMinor,
		})
	}

	return panels, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	if *output != "" {
		cfg.Plot.Output = *output
	}
	if flag.CommandLine.Changed("show") {
		cfg.Plot.Show = *show
	}

	runs := cfg.Plot.Runs
	if flag.NArg() != len(runs) {
		fmt.Println(usage(runs))
		os.Exit(1)
	}

	files := make([]*series.File, len(runs))
	for i, path := range flag.Args() {
		f, err := series.Open(path)
		if err != nil {
			log.Fatalf("Failed to open run %d: %v", i+1, err)
		}
		slog.Debug("Loaded run", "run", i+1, "path", path, "lines", f.Len())
		files[i] = f
	}

	if err := printStats(os.Stdout, files, cfg.Stats.FirstLine, cfg.Stats.LastLine); err != nil {
		log.Fatalf("Failed to compute statistics: %v", err)
	}

	panels, err := buildPanels(files, runs, cfg.Plot.Line)
	if err != nil {
		log.Fatalf("Failed to extract plot series: %v", err)
	}

	fig := chart.Figure{
		Panels: panels,
		Width:  vg.Length(cfg.Plot.WidthInches) * vg.Inch,
		Height: vg.Length(cfg.Plot.HeightInches) * vg.Inch,
	}
	if err := fig.Save(cfg.Plot.Output); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	fmt.Printf("Saved plot to %s\n", cfg.Plot.Output)

	if cfg.Plot.Show {
		if err := chart.Show(cfg.Plot.Output); err != nil {
			slog.Warn("Could not display plot", "error", err)
		}
	}
}
