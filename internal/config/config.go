package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string       `yaml:"log_level"`
	Stats    StatsConfig  `yaml:"stats"`
	Plot     PlotConfig   `yaml:"plot"`
	Report   ReportConfig `yaml:"report"`
}

// StatsConfig selects the zero-based line range printed by plot-series.
type StatsConfig struct {
	FirstLine int `yaml:"first_line"`
	LastLine  int `yaml:"last_line"`
}

type PlotConfig struct {
	Line         int         `yaml:"line"`
	Output       string      `yaml:"output"`
	WidthInches  float64     `yaml:"width_inches"`
	HeightInches float64     `yaml:"height_inches"`
	Show         bool        `yaml:"show"`
	Runs         []RunConfig `yaml:"runs"`
}

// RunConfig describes one measurement run: its polling frequency and the
// window of packet bins plotted for it.
type RunConfig struct {
	FrequencyHz int     `yaml:"frequency_hz"`
	Offset      int     `yaml:"offset"`
	Window      int     `yaml:"window"`
	XTickStep   float64 `yaml:"x_tick_step"`
}

type ReportConfig struct {
	LogPath        string        `yaml:"log_path"`
	PollHz         int           `yaml:"poll_hz"`
	ReloadInterval time.Duration `yaml:"reload_interval"`
	MinPackets     uint64        `yaml:"min_packets"`
	ServerAddr     string        `yaml:"server_addr"`
	APIKey         string        `yaml:"api_key"`
	PrometheusAddr string        `yaml:"prometheus_addr"`
}

func DefaultRuns() []RunConfig {
	return []RunConfig{
		{FrequencyHz: 20, Offset: 5, Window: 10, XTickStep: 1},
		{FrequencyHz: 200, Offset: 50, Window: 100, XTickStep: 10},
		{FrequencyHz: 2000, Offset: 500, Window: 1000, XTickStep: 100},
		{FrequencyHz: 4000, Offset: 1000, Window: 2000, XTickStep: 200},
	}
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Stats: StatsConfig{
			FirstLine: 1,
			LastLine:  19,
		},
		Plot: PlotConfig{
			Line:         2,
			Output:       "udp_plot.pdf",
			WidthInches:  12,
			HeightInches: 6,
			Show:         true,
			Runs:         DefaultRuns(),
		},
		Report: ReportConfig{
			LogPath:        "output-json.out",
			PollHz:         50,
			ReloadInterval: 30 * time.Second,
			ServerAddr:     ":8080",
			PrometheusAddr: "",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Stats.FirstLine < 0 || c.Stats.LastLine < c.Stats.FirstLine {
		return fmt.Errorf("stats line range [%d, %d] is empty", c.Stats.FirstLine, c.Stats.LastLine)
	}
	if c.Plot.Line < 0 {
		return fmt.Errorf("plot line %d is negative", c.Plot.Line)
	}
	if len(c.Plot.Runs) == 0 {
		return fmt.Errorf("no plot runs configured")
	}
	for i, run := range c.Plot.Runs {
		if run.FrequencyHz <= 0 {
			return fmt.Errorf("run %d: frequency_hz must be positive", i+1)
		}
		if run.Offset < 0 || run.Window <= 0 {
			return fmt.Errorf("run %d: invalid window %d at offset %d", i+1, run.Window, run.Offset)
		}
		if run.XTickStep <= 0 {
			return fmt.Errorf("run %d: x_tick_step must be positive", i+1)
		}
	}
	if c.Report.PollHz <= 0 {
		return fmt.Errorf("report poll_hz must be positive")
	}
	if c.Report.ReloadInterval <= 0 {
		return fmt.Errorf("report reload_interval must be positive")
	}
	return nil
}
