package agent

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// AxisBin aggregates the visited states that share one bin on an axis.
type AxisBin struct {
	Bin      int
	Visited  int
	Flaps    int     // Visited states whose greedy action is ActionFlap
	MeanIdle float64 // Mean ActionIdle value over visited states
	MeanFlap float64 // Mean ActionFlap value over visited states
}

// Summary describes what a table has learned.
type Summary struct {
	Bins      int
	States    int
	Visited   int
	MinValue  float64
	MaxValue  float64
	FlapShare float64 // Fraction of visited states that prefer flapping
	Y         []AxisBin
	V         []AxisBin
	Dist      []AxisBin
}

// Summarize computes per-axis statistics over the visited states of t.
func Summarize(t *Table) Summary {
	sum := Summary{
		Bins:   t.bins,
		States: t.States(),
		Y:      make([]AxisBin, t.bins),
		V:      make([]AxisBin, t.bins),
		Dist:   make([]AxisBin, t.bins),
	}

	idle := mat.Col(nil, int(ActionIdle), t.m)
	flap := mat.Col(nil, int(ActionFlap), t.m)
	sum.MinValue = floats.Min([]float64{floats.Min(idle), floats.Min(flap)})
	sum.MaxValue = floats.Max([]float64{floats.Max(idle), floats.Max(flap)})

	type acc struct{ idle, flap []float64 }
	axes := [3][]acc{make([]acc, t.bins), make([]acc, t.bins), make([]acc, t.bins)}

	flaps := 0
	for r := 0; r < t.States(); r++ {
		if idle[r] == 0 && flap[r] == 0 {
			continue
		}
		sum.Visited++

		s := t.StateAt(r)
		best, _ := t.Best(s)
		for axis, bin := range [3]int{s.Y, s.V, s.Dist} {
			a := &axes[axis][bin]
			a.idle = append(a.idle, idle[r])
			a.flap = append(a.flap, flap[r])
		}
		if best == ActionFlap {
			flaps++
			sum.Y[s.Y].Flaps++
			sum.V[s.V].Flaps++
			sum.Dist[s.Dist].Flaps++
		}
	}
	if sum.Visited > 0 {
		sum.FlapShare = float64(flaps) / float64(sum.Visited)
	}

	for axis, bins := range [3][]AxisBin{sum.Y, sum.V, sum.Dist} {
		for b := range bins {
			a := axes[axis][b]
			bins[b].Bin = b
			bins[b].Visited = len(a.idle)
			if len(a.idle) > 0 {
				bins[b].MeanIdle = stat.Mean(a.idle, nil)
				bins[b].MeanFlap = stat.Mean(a.flap, nil)
			}
		}
	}

	return sum
}
