// Package monitor implements the rectangle/padding/current-tag record of
// spec §3. Grounded on cortile's store.XHead/Workplace pairing in
// store/root.go, which carries the same rect-plus-padding-plus-tag shape
// for one physical display.
package monitor

import (
	"github.com/sashwm/sash/geom"
	"github.com/sashwm/sash/xserver"
)

// Padding is the reserved space on each edge of the monitor rectangle
// (panels, bars) the layout pass must respect.
type Padding struct {
	Left, Right, Up, Down int
}

// Monitor is one physical display's tiling state.
type Monitor struct {
	Name  string
	Index int

	Rect    geom.Rect
	Padding Padding

	CurrentTag string

	// StackWindow is the stacking-anchor window used to represent this
	// monitor as a Slice in the global monitor stack (spec §3).
	StackWindow xserver.WindowID
}

func New(name string, index int, rect geom.Rect) *Monitor {
	return &Monitor{Name: name, Index: index, Rect: rect}
}

// UsableRect returns the monitor rectangle after padding is applied,
// the rectangle a tiling layout pass actually divides.
func (m *Monitor) UsableRect() geom.Rect {
	return m.Rect.Inset(m.Padding.Left, m.Padding.Right, m.Padding.Up, m.Padding.Down)
}

// List is the ordered set of monitors a World tracks, plus which one is
// "current" for commands that operate relative to the active monitor.
type List struct {
	monitors []*Monitor
	current  int
}

func NewList() *List { return &List{current: -1} }

func (l *List) Add(m *Monitor) {
	l.monitors = append(l.monitors, m)
	if l.current < 0 {
		l.current = 0
	}
}

func (l *List) All() []*Monitor {
	out := make([]*Monitor, len(l.monitors))
	copy(out, l.monitors)
	return out
}

func (l *List) ByIndex(i int) *Monitor {
	if i < 0 || i >= len(l.monitors) {
		return nil
	}
	return l.monitors[i]
}

func (l *List) ByName(name string) *Monitor {
	for _, m := range l.monitors {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (l *List) Current() *Monitor {
	return l.ByIndex(l.current)
}

// FocusIndex switches the current monitor by index, the backing of the
// supplemented "monitor focus <index>" command (SPEC_FULL §4.15).
func (l *List) FocusIndex(i int) bool {
	if i < 0 || i >= len(l.monitors) {
		return false
	}
	l.current = i
	return true
}

// AtPoint returns the monitor whose rect contains p, or nil.
func (l *List) AtPoint(p geom.Point) *Monitor {
	for _, m := range l.monitors {
		if m.Rect.Contains(p) {
			return m
		}
	}
	return nil
}
