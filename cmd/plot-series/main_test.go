package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/internal/config"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/series"
)

// writeRun writes a log of lines records, each with bins packet counts
// where bin i of line l holds l*10000+i.
func writeRun(t *testing.T, dir string, hz, lines, bins int) *series.File {
	t.Helper()

	var b strings.Builder
	for l := 0; l < lines; l++ {
		parts := make([]string, bins)
		for i := range parts {
			parts[i] = fmt.Sprint(l*10000 + i)
		}
		seq := strings.Join(parts, ",")
		fmt.Fprintf(&b, `{"%d": {"2125543809": {"udp_bytes": [%s], "udp_packets": [%s]}}}`+"\n", 1000+l, seq, seq)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%dHz.json", hz))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	f, err := series.Open(path)
	require.NoError(t, err)
	return f
}

func TestDocumentedFlags(t *testing.T) {
	t.Cleanup(func() {
		*configPath, *output, *show = "", "", true
	})

	err := flag.CommandLine.Parse([]string{
		"--config", "plot.yaml", "--output", "out.png", "--show=false",
		"a.json", "b.json", "c.json", "d.json",
	})
	require.NoError(t, err)
	assert.Equal(t, "plot.yaml", *configPath)
	assert.Equal(t, "out.png", *output)
	assert.False(t, *show)
	assert.True(t, flag.CommandLine.Changed("show"))
	assert.Len(t, flag.CommandLine.Args(), 4)

	fs := flag.NewFlagSet("plot-series", flag.ContinueOnError)
	fs.String("config", "", "")
	assert.Error(t, fs.Parse([]string{"-config", "plot.yaml"}))
}

func TestUsage(t *testing.T) {
	assert.Equal(t,
		"Usage: plot-series <file_20Hz> <file_200Hz> <file_2000Hz> <file_4000Hz>",
		usage(config.DefaultRuns()))
}

func TestBuildPanels(t *testing.T) {
	dir := t.TempDir()
	runs := config.DefaultRuns()

	files := make([]*series.File, len(runs))
	for i, run := range runs {
		files[i] = writeRun(t, dir, run.FrequencyHz, 3, run.Offset+run.Window+5)
	}

	panels, err := buildPanels(files, runs, 2)
	require.NoError(t, err)
	require.Len(t, panels, 4)

	for i, run := range runs {
		p := panels[i]
		assert.Equal(t, fmt.Sprintf("Run %d: polling at %d Hz", i+1, run.FrequencyHz), p.Title)
		require.Len(t, p.Values, run.Window)
		assert.Equal(t, run.XTickStep, p.XStep)

		for j, v := range p.Values {
			raw := float64(2*10000 + run.Offset + j)
			assert.InDelta(t, raw*float64(run.FrequencyHz)/1000000.0, v, 1e-9)
		}
	}
}

func TestBuildPanelsShortSeries(t *testing.T) {
	dir := t.TempDir()
	runs := config.DefaultRuns()[:1]
	files := []*series.File{writeRun(t, dir, 20, 3, 12)}

	_, err := buildPanels(files, runs, 2)
	assert.ErrorIs(t, err, series.ErrWindowOutOfRange)
}

func TestPrintStats(t *testing.T) {
	dir := t.TempDir()
	f := writeRun(t, dir, 20, 4, 3)

	var out bytes.Buffer
	require.NoError(t, printStats(&out, []*series.File{f}, 1, 3))

	want := f.Path + "\n" +
		"time_id, bins, sum_packets, min_packets, max_packets\n" +
		"1, 3, 30003, 10000, 10002\n" +
		"2, 3, 60003, 20000, 20002\n" +
		"3, 3, 90003, 30000, 30002\n" +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestPrintStatsShortFile(t *testing.T) {
	f := writeRun(t, t.TempDir(), 20, 4, 3)

	var out bytes.Buffer
	err := printStats(&out, []*series.File{f}, 1, 19)
	assert.ErrorIs(t, err, series.ErrLineOutOfRange)
}
