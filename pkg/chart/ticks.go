package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// maxTicks caps the ticks a step ticker emits before it falls back to the
// default ticker.
const maxTicks = 1000

// StepTicks places major ticks every Major units and unlabeled minor ticks
// every Minor units. A zero Major keeps the default major ticks; a zero
// Minor adds no minor ticks.
type StepTicks struct {
	Major float64
	Minor float64
}

func (t StepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick

	if t.Major > 0 && (max-min)/t.Major <= maxTicks {
		for _, v := range multiples(min, max, t.Major) {
			ticks = append(ticks, plot.Tick{Value: v, Label: formatTick(v)})
		}
	} else {
		for _, tick := range (plot.DefaultTicks{}).Ticks(min, max) {
			if tick.Label != "" {
				ticks = append(ticks, tick)
			}
		}
	}

	if t.Minor > 0 && (max-min)/t.Minor <= maxTicks {
		for _, v := range multiples(min, max, t.Minor) {
			if !hasTick(ticks, v) {
				ticks = append(ticks, plot.Tick{Value: v})
			}
		}
	}

	return ticks
}

func multiples(min, max, step float64) []float64 {
	var out []float64
	first := math.Ceil(min/step - 1e-9)
	for i := first; i*step <= max+step*1e-9; i++ {
		out = append(out, roundStep(i*step, step))
	}
	return out
}

// roundStep trims float noise such as 0.6000000000000001 for steps like 0.2.
func roundStep(v, step float64) float64 {
	digits := math.Max(0, -math.Floor(math.Log10(step))+1)
	p := math.Pow(10, digits)
	r := math.Round(v*p) / p
	if r == 0 {
		// drop negative zero
		return 0
	}
	return r
}

func hasTick(ticks []plot.Tick, v float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Value-v) < 1e-9 {
			return true
		}
	}
	return false
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
