package agent

import "testing"

func TestSummarizeEmptyTable(t *testing.T) {
	sum := Summarize(NewTable(10))

	if sum.States != 1000 || sum.Visited != 0 {
		t.Errorf("States=%d Visited=%d, expected 1000 and 0", sum.States, sum.Visited)
	}
	if sum.FlapShare != 0 || sum.MinValue != 0 || sum.MaxValue != 0 {
		t.Errorf("empty table should summarize to zeros, got %+v", sum)
	}
	if len(sum.Y) != 10 || len(sum.V) != 10 || len(sum.Dist) != 10 {
		t.Error("expected one entry per bin on every axis")
	}
}

func TestSummarizeAxes(t *testing.T) {
	table := NewTable(10)
	table.Set(State{Y: 2, V: 5, Dist: 9}, ActionFlap, 4)
	table.Set(State{Y: 2, V: 6, Dist: 9}, ActionIdle, 2)
	table.Set(State{Y: 7, V: 5, Dist: 0}, ActionIdle, -100)

	sum := Summarize(table)

	if sum.Visited != 3 {
		t.Fatalf("Visited = %d, expected 3", sum.Visited)
	}
	if sum.MinValue != -100 || sum.MaxValue != 4 {
		t.Errorf("value range [%g, %g], expected [-100, 4]", sum.MinValue, sum.MaxValue)
	}
	// (7,5,0) has idle below flap, so two of three visited states flap.
	if sum.FlapShare != 2.0/3 {
		t.Errorf("FlapShare = %g, expected 2/3", sum.FlapShare)
	}

	y2 := sum.Y[2]
	if y2.Bin != 2 || y2.Visited != 2 || y2.Flaps != 1 {
		t.Errorf("y bin 2 = %+v", y2)
	}
	if y2.MeanIdle != 1 || y2.MeanFlap != 2 {
		t.Errorf("y bin 2 means idle=%g flap=%g, expected 1 and 2", y2.MeanIdle, y2.MeanFlap)
	}
	if sum.Dist[0].Visited != 1 || sum.Dist[0].MeanIdle != -100 {
		t.Errorf("dist bin 0 = %+v", sum.Dist[0])
	}
	if sum.V[5].Visited != 2 || sum.V[5].Flaps != 2 {
		t.Errorf("v bin 5 = %+v", sum.V[5])
	}
	if sum.Y[0].Visited != 0 || sum.Y[0].MeanIdle != 0 {
		t.Error("unvisited bins should stay zero")
	}
}
