package core

import "testing"

func TestInputFrameOrder(t *testing.T) {
	f := NewInputFrame()
	f.Push(ActionJump)
	f.Push(ActionNone)
	f.Push(ActionQuit)
	f.Push(ActionJump)

	got := f.Events()
	expected := []Action{ActionJump, ActionQuit, ActionJump}
	if len(got) != len(expected) {
		t.Fatalf("Events() = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Events()[%d] = %v, expected %v", i, got[i], expected[i])
		}
	}
	if !f.Has(ActionQuit) {
		t.Error("Has(ActionQuit) should be true")
	}
}

func TestInputFrameClearAndClone(t *testing.T) {
	f := NewInputFrame()
	f.Push(ActionJump)
	clone := f.Clone()

	f.Clear()
	if f.Len() != 0 {
		t.Errorf("Clear should empty the frame, Len() = %d", f.Len())
	}
	if f.Has(ActionJump) {
		t.Error("cleared frame should not report ActionJump")
	}
	if !clone.Has(ActionJump) {
		t.Error("clone should keep its events after the original is cleared")
	}
}

func TestActionAndPhaseStrings(t *testing.T) {
	if ActionJump.String() != "Jump" || Action(99).String() != "Unknown" {
		t.Error("unexpected Action.String() output")
	}
	if PhaseGameOver.String() != "game_over" || Phase(7).String() != "unknown" {
		t.Error("unexpected Phase.String() output")
	}
}
