package frame

import (
	"testing"

	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/geom"
)

func TestInsertAndFindClient(t *testing.T) {
	root := NewLeaf()
	InsertClient(root, "", 1)
	InsertClient(root, "", 2)

	if leaf := FindClient(root, 1); leaf != root {
		t.Fatal("expected client 1 to resolve to the root leaf")
	}
	if leaf := FindClient(root, 2); leaf != root {
		t.Fatal("expected client 2 to resolve to the root leaf")
	}
	if leaf := FindClient(root, 3); leaf != nil {
		t.Error("unknown client should not resolve to any leaf")
	}
}

func TestSplitMovesClientsToLeftChild(t *testing.T) {
	root := NewLeaf()
	InsertClient(root, "", 1)
	InsertClient(root, "", 2)

	root.Split(geom.SplitVertical, 0.5, 0.1)

	if !root.IsSplit {
		t.Fatal("Split should set IsSplit")
	}
	if len(root.Left.Clients) != 2 {
		t.Errorf("expected both clients to move to the left child, got %v", root.Left.Clients)
	}
	if len(root.Right.Clients) != 0 {
		t.Errorf("right child should start empty, got %v", root.Right.Clients)
	}
}

func TestSplitClampsFraction(t *testing.T) {
	root := NewLeaf()
	root.Split(geom.SplitVertical, 0.99, 0.1)
	if root.Fraction > 0.9 {
		t.Errorf("fraction not clamped against minFraction: %f", root.Fraction)
	}
	root2 := NewLeaf()
	root2.Split(geom.SplitVertical, 0.01, 0.1)
	if root2.Fraction < 0.1 {
		t.Errorf("fraction not clamped up to minFraction: %f", root2.Fraction)
	}
}

func TestInsertClientPathRouting(t *testing.T) {
	root := NewLeaf()
	root.Split(geom.SplitVertical, 0.5, 0.05)
	root.Right.Split(geom.SplitHorizontal, 0.5, 0.05)

	InsertClient(root, "L", 1)
	InsertClient(root, "RL", 2)
	InsertClient(root, "RR", 3)

	if FindClient(root, 1) != root.Left {
		t.Error("path L did not resolve to left leaf")
	}
	if FindClient(root, 2) != root.Right.Left {
		t.Error("path RL did not resolve to right-left leaf")
	}
	if FindClient(root, 3) != root.Right.Right {
		t.Error("path RR did not resolve to right-right leaf")
	}
}

func TestInsertClientInvalidPathDefaultsLeft(t *testing.T) {
	root := NewLeaf()
	root.Split(geom.SplitVertical, 0.5, 0.05)
	InsertClient(root, "bogus-garbage", 1)

	if FindClient(root, 1) != root.Left {
		t.Error("invalid path should default to always descending left")
	}
}

func TestRemoveClientAdjustsCursor(t *testing.T) {
	root := NewLeaf()
	InsertClient(root, "", 1)
	InsertClient(root, "", 2)
	InsertClient(root, "", 3)
	root.Cursor = 2 // selecting client 3

	if !RemoveClient(root, 3) {
		t.Fatal("RemoveClient should report success for a present client")
	}
	if root.Cursor != 1 {
		t.Errorf("cursor should clamp to the new last index, got %d", root.Cursor)
	}
	if RemoveClient(root, 99) {
		t.Error("RemoveClient on absent client should report failure")
	}
}

func TestRemoveLastClientResetsCursor(t *testing.T) {
	root := NewLeaf()
	InsertClient(root, "", 1)
	RemoveClient(root, 1)
	if root.Cursor != 0 {
		t.Errorf("empty frame should retain no selection (cursor 0), got %d", root.Cursor)
	}
	if len(root.Clients) != 0 {
		t.Error("clients slice should be empty after removing the only client")
	}
}

func TestSelectClient(t *testing.T) {
	root := NewLeaf()
	InsertClient(root, "", 1)
	InsertClient(root, "", 2)
	SelectClient(root, 1)
	if root.Cursor != 0 {
		t.Errorf("expected cursor 0 after selecting first-inserted client, got %d", root.Cursor)
	}
}

func TestLayoutMaxShowsOnlySelected(t *testing.T) {
	root := NewLeaf()
	root.Kind = Max
	InsertClient(root, "", 1)
	InsertClient(root, "", 2)
	root.Cursor = 1

	placements := Layout(root, geom.Rect{X: 0, Y: 0, W: 800, H: 600})
	if len(placements) != 1 {
		t.Fatalf("Max layout should produce exactly one placement, got %d", len(placements))
	}
	if placements[0].Client != 2 || !placements[0].Max {
		t.Errorf("Max layout placed wrong client or missed Max flag: %+v", placements[0])
	}
	if placements[0].Rect != (geom.Rect{X: 0, Y: 0, W: 800, H: 600}) {
		t.Errorf("Max layout should fill the whole rect, got %+v", placements[0].Rect)
	}
}

func TestLayoutVerticalSplitsEvenly(t *testing.T) {
	root := NewLeaf()
	root.Kind = Vertical
	InsertClient(root, "", 1)
	InsertClient(root, "", 2)

	placements := Layout(root, geom.Rect{X: 0, Y: 0, W: 1000, H: 500})
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placements))
	}
	totalW := placements[0].Rect.W + placements[1].Rect.W
	if totalW != 1000 {
		t.Errorf("placements should exactly tile the rect's width, got total %d", totalW)
	}
}

func TestLayoutRecursesThroughSplitTree(t *testing.T) {
	root := NewLeaf()
	root.Split(geom.SplitVertical, 0.5, 0.05)
	InsertClient(root, "L", 1)
	InsertClient(root, "R", 2)

	placements := Layout(root, geom.Rect{X: 0, Y: 0, W: 1000, H: 500})
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements across both children, got %d", len(placements))
	}
	ids := map[client.ID]bool{placements[0].Client: true, placements[1].Client: true}
	if !ids[1] || !ids[2] {
		t.Errorf("expected both clients 1 and 2 placed, got %v", placements)
	}
}

func TestQualifiesForSmartSurroundings(t *testing.T) {
	root := NewLeaf()
	if root.QualifiesForSmartSurroundings() {
		t.Error("empty leaf should not qualify")
	}
	InsertClient(root, "", 1)
	if !root.QualifiesForSmartSurroundings() {
		t.Error("single-client leaf should qualify")
	}
	InsertClient(root, "", 2)
	if root.QualifiesForSmartSurroundings() {
		t.Error("multi-client leaf should not qualify")
	}
}
