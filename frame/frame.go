// Package frame implements the binary split-tree of spec §3/§4.4: each
// node either divides its rectangle between two children or holds an
// ordered client list with a layout algorithm and selection cursor. The
// tree owns no client memory — it only borrows client identities — per
// spec §3's ownership rules. No direct teacher source covers this exact
// shape; it generalizes cortile's master/slave store/manager.go split
// into a recursive binary tree, per SPEC_FULL §4.16.
package frame

import (
	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/geom"
)

// LayoutKind names a leaf's internal arrangement, generalizing cortile's
// vertical/horizontal/maximized roster to the per-frame granularity
// spec's frame tree requires.
type LayoutKind int

const (
	Vertical LayoutKind = iota
	Horizontal
	Max
)

// Node is a Split or a Leaf. Exactly one of (Left,Right) or Clients is
// meaningful at a time, selected by IsSplit.
type Node struct {
	IsSplit bool

	// Split fields.
	Orientation geom.SplitOrientation
	Fraction    float64
	Left, Right *Node
	Selected    int // 0 = Left, 1 = Right

	// Leaf fields.
	Kind    LayoutKind
	Clients []client.ID
	Cursor  int // index into Clients of the selected client
	Parent  *Node
}

// NewLeaf returns an empty leaf frame.
func NewLeaf() *Node {
	return &Node{Kind: Vertical}
}

// Split replaces leaf in place with a Split node holding two fresh leaf
// children, moving leaf's clients into the first child. This mirrors
// the "split the selected frame" operation every tiling frame tree
// exposes even though spec.md names only the resulting data shape.
func (n *Node) Split(orientation geom.SplitOrientation, fraction float64, minFraction float64) {
	left := &Node{Kind: n.Kind, Clients: n.Clients, Cursor: n.Cursor, Parent: n}
	right := &Node{Kind: n.Kind, Parent: n}

	n.IsSplit = true
	n.Orientation = orientation
	n.Fraction = clampFractionFloat(fraction, minFraction)
	n.Left = left
	n.Right = right
	n.Selected = 0

	n.Kind = 0
	n.Clients = nil
	n.Cursor = 0
}

func clampFractionFloat(f, min float64) float64 {
	if min <= 0 || min >= 0.5 {
		min = 0.05
	}
	if f < min {
		return min
	}
	if f > 1-min {
		return 1 - min
	}
	return f
}

// FindClient walks the tree for id, returning its containing leaf.
func FindClient(root *Node, id client.ID) *Node {
	if root == nil {
		return nil
	}
	if !root.IsSplit {
		for _, c := range root.Clients {
			if c == id {
				return root
			}
		}
		return nil
	}
	if n := FindClient(root.Left, id); n != nil {
		return n
	}
	return FindClient(root.Right, id)
}

// InsertClient appends id to the leaf reached by path, a sequence of
// 'L'/'R' characters from root (spec §4.1 step 8's "tree_index"). At
// each split, 'R' or 'r' descends Right and any other character descends
// Left; once the path is empty or used up, descent continues Left to the
// first leaf, matching herbstluftwm's "index defaults to the focused
// frame" fallback in spirit.
func InsertClient(root *Node, path string, id client.ID) {
	leaf := resolveLeaf(root, path)
	if leaf == nil {
		return
	}
	leaf.Clients = append(leaf.Clients, id)
	leaf.Cursor = len(leaf.Clients) - 1
}

func resolveLeaf(n *Node, path string) *Node {
	if n == nil {
		return nil
	}
	if !n.IsSplit {
		return n
	}
	if len(path) == 0 {
		return resolveLeaf(n.Left, "")
	}
	switch path[0] {
	case 'R', 'r':
		return resolveLeaf(n.Right, path[1:])
	default:
		return resolveLeaf(n.Left, path[1:])
	}
}

// RemoveClient removes id from whichever leaf holds it, adjusting the
// selection cursor to the next client in insertion order (spec §4.2
// step 2). Reports whether id was found.
func RemoveClient(root *Node, id client.ID) bool {
	leaf := FindClient(root, id)
	if leaf == nil {
		return false
	}
	idx := -1
	for i, c := range leaf.Clients {
		if c == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	leaf.Clients = append(leaf.Clients[:idx], leaf.Clients[idx+1:]...)
	switch {
	case len(leaf.Clients) == 0:
		leaf.Cursor = 0
	case leaf.Cursor >= len(leaf.Clients):
		leaf.Cursor = len(leaf.Clients) - 1
	}
	return true
}

// SelectClient moves the leaf's cursor to id, if present (spec §4.1
// step 10's "select the client within its frame").
func SelectClient(root *Node, id client.ID) {
	leaf := FindClient(root, id)
	if leaf == nil {
		return
	}
	for i, c := range leaf.Clients {
		if c == id {
			leaf.Cursor = i
			return
		}
	}
}

// Placement is one leaf client's resolved layout target, consumed by the
// wm package's per-client layout step (World.layoutOneClient), which has
// the client records frame does not own.
type Placement struct {
	Client client.ID
	Rect   geom.Rect
	Max    bool // true if this leaf uses Max layout (only the selected client is visible)
}

// Layout recursively divides rect along the split tree and returns the
// flat placement list for every visible client, per SPEC_FULL §4.16.
func Layout(root *Node, rect geom.Rect) []Placement {
	if root == nil {
		return nil
	}
	if root.IsSplit {
		first, second := geom.Split(rect, root.Orientation, root.Fraction)
		var out []Placement
		out = append(out, Layout(root.Left, first)...)
		out = append(out, Layout(root.Right, second)...)
		return out
	}
	return layoutLeaf(root, rect)
}

func layoutLeaf(leaf *Node, rect geom.Rect) []Placement {
	n := len(leaf.Clients)
	if n == 0 {
		return nil
	}
	if leaf.Kind == Max {
		sel := leaf.Cursor
		if sel < 0 || sel >= n {
			sel = 0
		}
		return []Placement{{Client: leaf.Clients[sel], Rect: rect, Max: true}}
	}

	orientation := geom.SplitVertical
	if leaf.Kind == Horizontal {
		orientation = geom.SplitHorizontal
	}

	out := make([]Placement, 0, n)
	remaining := rect
	for i, id := range leaf.Clients {
		if i == n-1 {
			out = append(out, Placement{Client: id, Rect: remaining})
			break
		}
		fraction := 1.0 / float64(n-i)
		first, second := geom.Split(remaining, orientation, fraction)
		out = append(out, Placement{Client: id, Rect: first})
		remaining = second
	}
	return out
}

// QualifiesForSmartSurroundings reports whether leaf is a single-client
// frame, the condition spec §4.4 names for the Minimal decoration
// scheme ("a single-client frame under suitable settings").
func (n *Node) QualifiesForSmartSurroundings() bool {
	return !n.IsSplit && len(n.Clients) == 1
}
