package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

var ErrNoPanels = errors.New("no panels to render")

// Panel is one subplot: a time series drawn against its bin index.
type Panel struct {
	Title  string
	XLabel string
	YLabel string
	Values []float64
	XStep  float64
	YMinor float64
}

// XYs pairs every value with its bin index.
func (p Panel) XYs() plotter.XYs {
	pts := make(plotter.XYs, len(p.Values))
	for i, v := range p.Values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

func (p Panel) Plot() (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.XLabel
	pl.Y.Label.Text = p.YLabel

	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(p.XYs())
	if err != nil {
		return nil, fmt.Errorf("failed to build line for %q: %w", p.Title, err)
	}
	line.Color = plotutil.Color(0)
	pl.Add(line)

	pl.X.Tick.Marker = StepTicks{Major: p.XStep}
	pl.Y.Tick.Marker = StepTicks{Minor: p.YMinor}

	return pl, nil
}

// Figure stacks panels vertically in one canvas.
type Figure struct {
	Panels []Panel
	Width  vg.Length
	Height vg.Length
}

// Render draws the figure in format ("pdf", "png" or "svg") to w.
func (f Figure) Render(w io.Writer, format string) error {
	if len(f.Panels) == 0 {
		return ErrNoPanels
	}

	plots := make([][]*plot.Plot, len(f.Panels))
	for i, panel := range f.Panels {
		p, err := panel.Plot()
		if err != nil {
			return err
		}
		plots[i] = []*plot.Plot{p}
	}

	var canvas vg.CanvasWriterTo
	switch strings.ToLower(format) {
	case "pdf":
		canvas = vgpdf.New(f.Width, f.Height)
	case "svg":
		canvas = vgsvg.New(f.Width, f.Height)
	case "png":
		canvas = vgimg.PngCanvas{Canvas: vgimg.New(f.Width, f.Height)}
	default:
		return fmt.Errorf("unsupported plot format %q", format)
	}

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(6),
	}

	canvases := plot.Align(plots, tiles, draw.New(canvas))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

// Save writes the figure to path, choosing the format from its extension.
func (f Figure) Save(path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("output %s has no extension", path)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := f.Render(out, format); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
