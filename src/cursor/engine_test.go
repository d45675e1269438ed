package cursor

import (
	"errors"
	"testing"
)

// linConv maps time to pixels with a fixed scale, enough for hit testing.
type linConv struct{ scale float64 }

func (c linConv) TimeToPx(t float64) float32 { return float32(t * c.scale) }

func TestEngine_StartsHidden(t *testing.T) {
	e := NewEngine()
	for _, id := range []ID{A, B} {
		if e.State(id) != Hidden {
			t.Fatalf("cursor %s should start hidden", id)
		}
		if _, ok := e.Position(id); ok {
			t.Fatalf("hidden cursor %s must not report a position", id)
		}
	}
}

func TestEngine_ActivateCentersInRange(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 4)
	e.Activate(A)
	if e.State(A) != Placed {
		t.Fatalf("state got %s want placed", e.State(A))
	}
	pos, ok := e.Position(A)
	if !ok || pos != 2 {
		t.Fatalf("position got (%g,%v) want (2,true)", pos, ok)
	}
	// activating an already visible cursor leaves it alone
	e.Place(3.5)
	e.Activate(A)
	if pos, _ := e.Position(A); pos != 2 {
		t.Fatalf("re-activate moved cursor to %g", pos)
	}
}

func TestEngine_PlaceFillsAThenBThenMovesLast(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 10)
	if id := e.Place(1); id != A {
		t.Fatalf("first place got %s want A", id)
	}
	if id := e.Place(2); id != B {
		t.Fatalf("second place got %s want B", id)
	}
	// both visible: the last-moved cursor (B) moves, no third cursor appears
	if id := e.Place(3); id != B {
		t.Fatalf("third place got %s want B", id)
	}
	if pos, _ := e.Position(A); pos != 1 {
		t.Fatalf("A moved to %g", pos)
	}
	if pos, _ := e.Position(B); pos != 3 {
		t.Fatalf("B position got %g want 3", pos)
	}
}

func TestEngine_PlaceMovesMostRecentlyDragged(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 10)
	e.Place(1) // A
	e.Place(2) // B
	if err := e.BeginDrag(A); err != nil {
		t.Fatalf("beginDrag: %v", err)
	}
	if err := e.UpdateDrag(A, 5); err != nil {
		t.Fatalf("updateDrag: %v", err)
	}
	if err := e.EndDrag(A); err != nil {
		t.Fatalf("endDrag: %v", err)
	}
	if id := e.Place(7); id != A {
		t.Fatalf("place after dragging A got %s want A", id)
	}
}

func TestEngine_PositionsClampToRange(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 3)
	e.Place(99)
	if pos, _ := e.Position(A); pos != 3 {
		t.Fatalf("place beyond range got %g want 3", pos)
	}
	e.Place(-99)
	if pos, _ := e.Position(B); pos != 0 {
		t.Fatalf("place below range got %g want 0", pos)
	}
	e.BeginDrag(A)
	e.UpdateDrag(A, 100)
	if pos, _ := e.Position(A); pos != 3 {
		t.Fatalf("drag beyond range got %g want 3", pos)
	}
}

func TestEngine_SetTimeRangeClampsExistingCursors(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 10)
	e.Place(8)
	e.SetTimeRange(0, 5)
	if pos, _ := e.Position(A); pos != 5 {
		t.Fatalf("reload clamp got %g want 5", pos)
	}
}

func TestEngine_InvalidTransitionsAreNoOps(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 10)

	if err := e.BeginDrag(A); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("beginDrag on hidden got %v want ErrInvalidTransition", err)
	}
	if e.State(A) != Hidden {
		t.Fatalf("failed beginDrag changed state to %s", e.State(A))
	}
	if err := e.UpdateDrag(A, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("updateDrag outside drag got %v", err)
	}
	if err := e.EndDrag(A); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("endDrag outside drag got %v", err)
	}

	e.Place(2)
	if err := e.UpdateDrag(A, 4); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("updateDrag while placed got %v", err)
	}
	if pos, _ := e.Position(A); pos != 2 {
		t.Fatalf("failed updateDrag moved cursor to %g", pos)
	}
}

func TestEngine_DragLifecycle(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 10)
	e.Place(2)
	if err := e.BeginDrag(A); err != nil {
		t.Fatalf("beginDrag: %v", err)
	}
	if e.State(A) != Dragging {
		t.Fatalf("state got %s want dragging", e.State(A))
	}
	// absolute updates: repeating the same position accumulates no drift
	for i := 0; i < 5; i++ {
		if err := e.UpdateDrag(A, 6.5); err != nil {
			t.Fatalf("updateDrag: %v", err)
		}
	}
	if pos, _ := e.Position(A); pos != 6.5 {
		t.Fatalf("position got %g want 6.5", pos)
	}
	if err := e.EndDrag(A); err != nil {
		t.Fatalf("endDrag: %v", err)
	}
	if e.State(A) != Placed {
		t.Fatalf("state after endDrag got %s want placed", e.State(A))
	}
	if pos, _ := e.Position(A); pos != 6.5 {
		t.Fatalf("endDrag moved cursor to %g", pos)
	}
}

func TestEngine_HideAll(t *testing.T) {
	e := NewEngine()
	e.SetTimeRange(0, 10)
	e.Place(1)
	e.Place(2)
	e.BeginDrag(B)
	e.HideAll()
	if e.State(A) != Hidden || e.State(B) != Hidden {
		t.Fatalf("states got %s,%s want hidden,hidden", e.State(A), e.State(B))
	}
}

func TestEngine_HitTest(t *testing.T) {
	// 10 px per time unit
	conv := linConv{scale: 10}
	e := NewEngine()
	e.SetTimeRange(0, 100)
	e.Place(10) // A at px 100
	e.Place(20) // B at px 200

	if id, ok := e.HitTest(10.5, 8, conv); !ok || id != A {
		t.Fatalf("near A got (%s,%v)", id, ok)
	}
	if _, ok := e.HitTest(15, 8, conv); ok {
		t.Fatalf("midway between cursors should miss at 8px tolerance")
	}
	if id, ok := e.HitTest(19.9, 8, conv); !ok || id != B {
		t.Fatalf("near B got (%s,%v)", id, ok)
	}

	// equidistant: tie goes to A
	e2 := NewEngine()
	e2.SetTimeRange(0, 100)
	e2.Place(10)
	e2.Place(11)
	if id, ok := e2.HitTest(10.5, 8, conv); !ok || id != A {
		t.Fatalf("tie-break got (%s,%v) want (A,true)", id, ok)
	}

	// hidden cursors are never hit
	e.HideAll()
	if _, ok := e.HitTest(10, 8, conv); ok {
		t.Fatalf("hidden cursor was hit")
	}
}

func TestEngine_DirtyFlag(t *testing.T) {
	e := NewEngine()
	if e.Dirty() {
		t.Fatalf("fresh engine should be clean")
	}
	e.SetTimeRange(0, 1)
	if !e.Dirty() {
		t.Fatalf("SetTimeRange should mark dirty")
	}
	e.ClearDirty()
	e.Place(0.5)
	if !e.Dirty() {
		t.Fatalf("Place should mark dirty")
	}
}
