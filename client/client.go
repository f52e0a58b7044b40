// Package client implements per-window client state, adoption bookkeeping,
// size-hint normalization and the fullscreen/urgency flags of spec §3,
// §4.1, §4.2, §4.5, §4.9. Grounded on original_source/src/clientlist.cpp
// for algorithm semantics and cortile's store/client.go for the Go shape
// of a client record (geometry caching, flag predicates, logging idiom).
package client

import (
	"github.com/sashwm/sash/geom"
	"github.com/sashwm/sash/stack"
	"github.com/sashwm/sash/xserver"
)

// ID is the client's identity: its own top-level X window id, never
// reassigned for the client's lifetime. Core packages import this
// instead of jezek/xgb directly, per spec §1.
type ID = xserver.WindowID

// Hard floor below which a client is never laid out, spec §4.5 step 1.
const (
	MinWidth  = 20
	MinHeight = 20
)

// SizeHints mirrors the ICCCM WM_NORMAL_HINTS fields, matching
// HSClient::updatesizehints in original_source/src/clientlist.cpp.
type SizeHints struct {
	BaseW, BaseH int
	MinW, MinH   int
	MaxW, MaxH   int
	IncW, IncH   int
	MinAspect    float64
	MaxAspect    float64
}

// SchemeRole selects which decoration scheme triple a client's layout
// pass picks from (spec §4.4).
type SchemeRole int

const (
	RoleTiling SchemeRole = iota
	RoleFloating
	RoleMinimal
	RoleFullscreen
)

// SchemeState selects within a scheme triple (spec §4.4).
type SchemeState int

const (
	StateNormal SchemeState = iota
	StateActive
	StateUrgent
)

// Client represents one adopted top-level window.
type Client struct {
	Window           ID
	DecorationWindow xserver.WindowID

	Title   string
	PID     int
	Keymask string
	TagName string // owning tag's name; empty before adoption completes

	FloatSize     geom.Rect
	LastSize      geom.Rect
	LastInnerRect geom.Rect

	Hints SizeHints

	Fullscreen        bool
	EWMHFullscreen    bool
	Pseudotile        bool
	EWMHRequests      bool
	EWMHNotify        bool
	SizehintsTiling   bool
	SizehintsFloating bool
	Urgent            bool
	NeverFocus        bool
	Visible           bool
	Dragged           bool

	IgnoreUnmaps int

	Slice *stack.Slice

	decoration Decorator
}

// Changes is the rules-engine verdict from spec §4.1 step 3.
type Changes struct {
	TagName     string
	MonitorName string
	Keymask     string
	Manage      bool
	Focus       bool
	SwitchTag   bool
	TreeIndex   string
	Fullscreen  bool
}

// RulesEngine is queried once per adoption (spec §6 "Rules engine
// contract"). Implementations must not mutate core state.
type RulesEngine interface {
	Evaluate(w ID, title string, class string) Changes
}

// Decorator is the out-of-scope decoration renderer boundary (spec §6
// "Decoration contract").
type Decorator interface {
	SetupFrame(c *Client)
	ResizeOutline(c *Client, outer geom.Rect, role SchemeRole, state SchemeState)
	ResizeInner(c *Client, inner geom.Rect)
	ChangeScheme(c *Client, role SchemeRole, state SchemeState)
	Free(c *Client)
}

// NoopDecorator satisfies Decorator without drawing anything; decoration
// rendering is explicitly out of scope per spec §1.
type NoopDecorator struct{}

func (NoopDecorator) SetupFrame(*Client)                                        {}
func (NoopDecorator) ResizeOutline(*Client, geom.Rect, SchemeRole, SchemeState) {}
func (NoopDecorator) ResizeInner(*Client, geom.Rect)                            {}
func (NoopDecorator) ChangeScheme(*Client, SchemeRole, SchemeState)             {}
func (NoopDecorator) Free(*Client)                                              {}

// New constructs a Client with sane defaults; the caller fills in hints,
// title and tag membership during adoption (spec §4.1).
func New(w ID, initial geom.Rect, dec Decorator) *Client {
	if dec == nil {
		dec = NoopDecorator{}
	}
	return &Client{
		Window:          w,
		FloatSize:       initial,
		LastSize:        initial,
		SizehintsTiling: true,
		decoration:      dec,
	}
}

// EffectiveHintsEnabled reports whether size hints apply for the
// client's current floating/tiling state, spec §4.5 step 2.
func (c *Client) EffectiveHintsEnabled(floated bool) bool {
	if floated || c.Pseudotile {
		return c.SizehintsFloating
	}
	return c.SizehintsTiling
}

// ApplySizeHints runs the ICCCM normalization of spec §4.5 against the
// client's own hints, returning the adjusted (w, h) and whether they
// differ from lastSize. floated selects which sizehints_* flag governs
// whether hints are applied at all.
func (c *Client) ApplySizeHints(w, h int, floated bool) (outW, outH int, changed bool) {
	w, h = ApplySizeHints(c.Hints, w, h, c.EffectiveHintsEnabled(floated))
	changed = w != c.LastSize.W || h != c.LastSize.H
	return w, h, changed
}

// ApplySizeHints is the pure function behind Client.ApplySizeHints, kept
// free-standing so it can be unit-tested against the scenarios of spec
// §8 (R4, scenario 3) without a Client value.
func ApplySizeHints(hints SizeHints, w, h int, enabled bool) (int, int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w < MinWidth {
		w = MinWidth
	}
	if h < MinHeight {
		h = MinHeight
	}
	if !enabled {
		return w, h
	}

	baseIsMin := hints.BaseW == hints.MinW && hints.BaseH == hints.MinH
	if !baseIsMin {
		w -= hints.BaseW
		h -= hints.BaseH
	}

	if hints.MinAspect > 0 && hints.MaxAspect > 0 && h != 0 && w != 0 {
		aspect := float64(w) / float64(h)
		if hints.MaxAspect < aspect {
			w = int(float64(h)*hints.MaxAspect + 0.5)
		} else if hints.MinAspect < float64(h)/float64(w) {
			h = int(float64(w)*hints.MinAspect + 0.5)
		}
	}

	if baseIsMin {
		w -= hints.BaseW
		h -= hints.BaseH
	}

	if hints.IncW != 0 {
		w -= w % hints.IncW
	}
	if hints.IncH != 0 {
		h -= h % hints.IncH
	}

	w += hints.BaseW
	h += hints.BaseH

	if w < hints.MinW {
		w = hints.MinW
	}
	if h < hints.MinH {
		h = hints.MinH
	}
	if hints.MaxW > 0 && w > hints.MaxW {
		w = hints.MaxW
	}
	if hints.MaxH > 0 && h > hints.MaxH {
		h = hints.MaxH
	}
	return w, h
}

// SelectScheme picks the decoration scheme triple index of spec §4.4.
func (c *Client) SelectScheme(floated, smartSurroundings bool) SchemeRole {
	switch {
	case c.Fullscreen:
		return RoleFullscreen
	case floated:
		return RoleFloating
	case smartSurroundings && !c.Pseudotile:
		return RoleMinimal
	default:
		return RoleTiling
	}
}

// SelectState picks Active/Urgent/Normal within the chosen scheme.
func (c *Client) SelectState(focused bool) SchemeState {
	switch {
	case focused:
		return StateActive
	case c.Urgent:
		return StateUrgent
	default:
		return StateNormal
	}
}

// SetFullscreen toggles the fullscreen flag, adding/removing the
// client's slice from the Fullscreen layer. Callers (wm.World) are
// responsible for the re-layout, EWMH publication and hook emission
// that spec §4.6 also requires; this method only owns the flag and the
// stack-membership side effect, which must stay atomic with the flag.
func (c *Client) SetFullscreen(on bool, st *stack.Stack) bool {
	if c.Fullscreen == on {
		return false
	}
	c.Fullscreen = on
	if on {
		st.AddLayer(c.Slice, stack.Fullscreen)
	} else {
		st.RemoveLayer(c.Slice, stack.Fullscreen)
	}
	return true
}

// SetUrgent is a no-op when state already matches (spec §4.7). Returns
// whether the flag actually changed, so the caller knows whether to
// emit the urgent hook and repaint the border.
func (c *Client) SetUrgent(state bool) bool {
	if c.Urgent == state {
		return false
	}
	c.Urgent = state
	return true
}

// BeginIgnoredUnmap pre-increments the suppression counter before a
// manager-initiated unmap, per spec §4.8.
func (c *Client) BeginIgnoredUnmap() { c.IgnoreUnmaps++ }

// ObserveUnmap decrements the counter on an observed UnmapNotify and
// reports whether it was swallowed (counter was positive). Spec §4.8,
// invariant I3 keeps the counter nonnegative.
func (c *Client) ObserveUnmap() (swallowed bool) {
	if c.IgnoreUnmaps > 0 {
		c.IgnoreUnmaps--
		return true
	}
	return false
}

func (c *Client) Decoration() Decorator { return c.decoration }

func (c *Client) SetDecoration(d Decorator) {
	if d == nil {
		d = NoopDecorator{}
	}
	c.decoration = d
}

// OuterGeometry reports the client's most recently committed outer
// rectangle (LastSize). The shutdown pass does not use it: it restores
// each client to its FloatSize.
func (c *Client) OuterGeometry() geom.Rect { return c.LastSize }

// ClampFloatToMonitor clamps the client's floating position so at least
// treshold pixels remain on-monitor on each axis (spec §4.4 "Floating
// rectangle transform").
func ClampFloatToMonitor(float geom.Rect, monitor geom.Rect, treshold int) geom.Rect {
	out := float
	minX := monitor.X - out.W + treshold
	maxX := monitor.X + monitor.W - treshold
	minY := monitor.Y - out.H + treshold
	maxY := monitor.Y + monitor.H - treshold
	out.X = geom.Clamp(out.X, minX, geom.MaxInt(minX, maxX))
	out.Y = geom.Clamp(out.Y, minY, geom.MaxInt(minY, maxY))
	return out
}
