package stack

import (
	"testing"

	"github.com/sashwm/sash/xserver"
)

func TestInsertAndToWindowBuf(t *testing.T) {
	s := New()
	a := NewClientSlice(1)
	b := NewClientSlice(2)

	s.Insert(a, Normal)
	s.Insert(b, Normal)

	buf := s.ToWindowBuf()
	if len(buf) != 2 || buf[0] != 2 || buf[1] != 1 {
		t.Errorf("expected most-recent-first order [2 1], got %v", buf)
	}
}

func TestRemoveClearsLayerMembership(t *testing.T) {
	s := New()
	a := NewClientSlice(1)
	s.Insert(a, Normal)
	s.Remove(a)

	if a.HasLayer(Normal) {
		t.Error("slice still reports Normal layer membership after Remove")
	}
	if !s.Empty() {
		t.Error("stack should be empty after removing its only slice")
	}
}

func TestRaisePreservesOtherOrder(t *testing.T) {
	s := New()
	a := NewClientSlice(1)
	b := NewClientSlice(2)
	c := NewClientSlice(3)
	s.Insert(a, Normal)
	s.Insert(b, Normal)
	s.Insert(c, Normal)
	// order is now [3 2 1]

	s.Raise(a)
	buf := s.ToWindowBuf()
	if len(buf) != 3 || buf[0] != 1 {
		t.Errorf("raised slice should be frontmost, got %v", buf)
	}
}

func TestAddLayerAndRemoveLayer(t *testing.T) {
	s := New()
	a := NewClientSlice(1)
	s.Insert(a, Normal)

	s.AddLayer(a, Fullscreen)
	if !a.HasLayer(Fullscreen) {
		t.Fatal("AddLayer did not set layer membership")
	}

	// Fullscreen sits above Normal, so the fullscreen membership should
	// be what ToWindowBuf reports a position from.
	buf := s.ToWindowBuf()
	if len(buf) != 1 || buf[0] != 1 {
		t.Errorf("expected single entry [1], got %v", buf)
	}

	if ok := s.RemoveLayer(a, Fullscreen); !ok {
		t.Error("RemoveLayer reported inconsistency removing a present membership")
	}
	if a.HasLayer(Fullscreen) {
		t.Error("Fullscreen membership should be cleared")
	}
	if !a.HasLayer(Normal) {
		t.Error("Normal membership should be untouched by RemoveLayer(Fullscreen)")
	}
}

func TestToWindowBufSkipsLowerDuplicateLayers(t *testing.T) {
	s := New()
	a := NewClientSlice(1)
	s.Insert(a, Normal)
	s.AddLayer(a, Focus)

	buf := s.ToWindowBuf()
	count := 0
	for _, w := range buf {
		if w == 1 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("slice in two layers should appear once in ToWindowBuf, appeared %d times", count)
	}
}

func TestLowestWindowEmptyStack(t *testing.T) {
	s := New()
	if w := s.LowestWindow(); w != xserver.None {
		t.Errorf("LowestWindow on empty stack = %v, want None (spec B4)", w)
	}
}

func TestLowestWindowRecursesIntoMonitorSlice(t *testing.T) {
	inner := New()
	innerClient := NewClientSlice(42)
	inner.Insert(innerClient, Normal)

	outer := New()
	monSlice := NewMonitorSlice(99, inner)
	outer.Insert(monSlice, Normal)

	if w := outer.LowestWindow(); w != 42 {
		t.Errorf("LowestWindow should recurse into nested monitor stack, got %v", w)
	}
}

func TestWindowCountRealClientsOnly(t *testing.T) {
	s := New()
	s.Insert(NewClientSlice(1), Normal)
	s.Insert(NewWindowSlice(2), Frames)

	if n := s.WindowCount(false); n != 2 {
		t.Errorf("WindowCount(false) = %d, want 2", n)
	}
	if n := s.WindowCount(true); n != 1 {
		t.Errorf("WindowCount(true) = %d, want 1 (only real clients)", n)
	}
}

func TestWindowCountDedupsMultiLayerSlice(t *testing.T) {
	s := New()
	a := NewClientSlice(1)
	s.Insert(a, Normal)
	s.AddLayer(a, Focus)
	s.Insert(NewClientSlice(2), Normal)

	if n := s.WindowCount(true); n != 2 {
		t.Errorf("WindowCount(true) = %d, want 2 (focused slice counted once)", n)
	}
}

func TestLowestWindowPrefersLowerLayer(t *testing.T) {
	s := New()
	s.Insert(NewClientSlice(1), Normal)
	s.Insert(NewClientSlice(2), Frames)

	if w := s.LowestWindow(); w != 2 {
		t.Errorf("LowestWindow() = %v, want 2 (Frames sits below Normal)", w)
	}
}

func TestLowestWindowWithinLayerPrefersBack(t *testing.T) {
	s := New()
	s.Insert(NewClientSlice(1), Normal)
	s.Insert(NewClientSlice(2), Normal)
	// order is now [2 1]; the back of the sequence (1) is the oldest
	// insertion and the genuinely lowest window within this layer.

	if w := s.LowestWindow(); w != 1 {
		t.Errorf("LowestWindow() = %v, want 1 (back of Normal layer)", w)
	}
}

type fakeRestacker struct {
	restacked []xserver.WindowID
	published bool
}

func (f *fakeRestacker) RestackWindows(order []xserver.WindowID) error {
	f.restacked = order
	return nil
}

func (f *fakeRestacker) PublishStacking(order []xserver.WindowID) {
	f.published = true
}

func TestRestackSkipsWhenClean(t *testing.T) {
	s := New()
	s.MarkClean()
	r := &fakeRestacker{}
	if err := s.Restack(r); err != nil {
		t.Fatalf("Restack on clean stack returned error: %v", err)
	}
	if r.restacked != nil || r.published {
		t.Error("Restack should not call through when the stack isn't dirty")
	}
}

func TestRestackClearsDirtyBit(t *testing.T) {
	s := New()
	s.Insert(NewClientSlice(1), Normal)
	if !s.Dirty() {
		t.Fatal("Insert should mark the stack dirty")
	}

	r := &fakeRestacker{}
	if err := s.Restack(r); err != nil {
		t.Fatalf("Restack returned error: %v", err)
	}
	if s.Dirty() {
		t.Error("Restack should clear the dirty bit on success")
	}
	if len(r.restacked) != 1 || !r.published {
		t.Error("Restack should issue exactly one restack + publish pair")
	}
}
