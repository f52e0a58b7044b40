// Package focus implements the cross-monitor single-focus discipline,
// ICCCM input-focus handoff and urgency state machine of spec §4.6,
// §4.7, §4.8. Grounded on original_source/src/clientlist.cpp's
// window_focus, window_unfocus_last and set_urgent, which are the
// authoritative step orderings each method here follows.
package focus

import (
	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/hook"
	"github.com/sashwm/sash/stack"
	"github.com/sashwm/sash/tag"
	"github.com/sashwm/sash/xserver"
)

// Input is the boundary the focus machine drives X through. It is a
// narrow slice of xserver.Server plus the keybinding/button-grab
// surface spec §1 names as an external collaborator.
type Input interface {
	SetInputFocus(w xserver.WindowID) error
	SendClientMessage(w xserver.WindowID, protocol string) error
	SetWMHints(w xserver.WindowID, h xserver.WMHints) error
	GetWMHints(w xserver.WindowID) (xserver.WMHints, error)
}

// Buttons is the passive-button-grab boundary (part of the pointer-drag
// subsystem spec §1 keeps external).
type Buttons interface {
	GrabButtons(w xserver.WindowID)
	UngrabButtons(w xserver.WindowID)
}

// Keymask is the keybinding-table boundary spec §1 keeps external.
type Keymask interface {
	Install(mask string)
}

// EWMHActiveWindow is the EWMH bridge boundary for the single property
// the focus machine publishes directly.
type EWMHActiveWindow interface {
	SetActiveWindow(w xserver.WindowID)
}

// Machine holds the module-level `lastfocus` reference of spec §9,
// turned into an explicit field instead of a package global.
type Machine struct {
	Input   Input
	Buttons Buttons
	Keymask Keymask
	EWMH    EWMHActiveWindow
	Emitter hook.Emitter
	Root    xserver.WindowID

	last *client.Client
}

// LastFocused returns the client currently holding focus, or nil.
func (m *Machine) LastFocused() *client.Client { return m.last }

// Focus implements window_focus (spec §4.7). raiseOnFocus and
// frameIsMaxTiling decide step 3's "raise c if ... or if the current
// frame is in Max layout and the tag is tiling". t is c's owning tag;
// its stack receives the focus-layer update.
func (m *Machine) Focus(c *client.Client, t *tag.Tag, raiseOnFocus, frameIsMaxTiling bool) {
	if c == nil {
		return
	}

	if !c.NeverFocus {
		m.Input.SetInputFocus(c.Window)
	} else {
		m.Input.SendClientMessage(c.Window, "WM_TAKE_FOCUS")
	}

	changed := c != m.last
	if changed {
		if m.last != nil {
			m.Buttons.GrabButtons(m.last.Window)
		}
		m.EWMH.SetActiveWindow(c.Window)
		m.updateFocusLayer(t, c)
		m.Emitter.Emit("focus_changed", hexWindow(c.Window), c.Title)
	}

	if raiseOnFocus || frameIsMaxTiling {
		t.Stack.Raise(c.Slice)
	}

	m.updateFocusLayer(t, c)
	m.Buttons.UngrabButtons(c.Window)
	m.Keymask.Install(c.Keymask)
	c.SetUrgent(false)

	m.last = c
}

// UnfocusLast implements window_unfocus_last (spec §4.7).
// currentMonitorTag is the tag shown on whatever monitor is current, so
// its keymask can be reset to the empty mask.
func (m *Machine) UnfocusLast(currentMonitorTag *tag.Tag) {
	if m.last == nil {
		return
	}
	m.Buttons.GrabButtons(m.last.Window)
	m.Input.SetInputFocus(m.Root)
	m.Emitter.Emit("focus_changed", "0x0", "")
	m.EWMH.SetActiveWindow(xserver.None)
	if currentMonitorTag != nil {
		m.Keymask.Install("")
	}
	m.last = nil
}

// updateFocusLayer keeps c's slice in the tag's Focus layer and removes
// any other client's membership, realizing "at most one client ... is
// linked as focus" (spec I5) at the stack-layer level.
func (m *Machine) updateFocusLayer(t *tag.Tag, c *client.Client) {
	if t == nil || c == nil || c.Slice == nil {
		return
	}
	if m.last != nil && m.last != c && m.last.Slice != nil {
		t.Stack.RemoveLayer(m.last.Slice, stack.Focus)
	}
	t.Stack.AddLayer(c.Slice, stack.Focus)
}

// SetUrgent implements spec §4.7's set_urgent: a no-op when the flag
// already matches; on change it emits the hook, updates XWMHints and
// marks the tag dirty. When c is the last-focused client, a request to
// set urgency is not honored: the urgency hint c set is cleared instead.
func (m *Machine) SetUrgent(c *client.Client, state bool, t *tag.Tag) {
	if c == nil {
		return
	}
	if focused := m.last == c; focused && state {
		// ICCCM: never let a focused window stay marked urgent; clear
		// the urgency hint it set instead of honoring it.
		if hints, err := m.Input.GetWMHints(c.Window); err == nil && hints.UrgencyHint {
			hints.UrgencyHint = false
			m.Input.SetWMHints(c.Window, hints)
		}
		state = false
	}
	if !c.SetUrgent(state) {
		return
	}

	hints, _ := m.Input.GetWMHints(c.Window)
	hints.UrgencyHint = state
	m.Input.SetWMHints(c.Window, hints)

	onoff := "off"
	if state {
		onoff = "on"
	}
	m.Emitter.Emit("urgent", onoff, hexWindow(c.Window))
	if t != nil {
		t.SetUrgentFlag(state)
		t.MarkDirty()
	}
}

func hexWindow(w xserver.WindowID) string {
	const hexDigits = "0123456789abcdef"
	if w == 0 {
		return "0x0"
	}
	var buf [8]byte
	i := len(buf)
	v := uint32(w)
	for v > 0 {
		i--
		buf[i] = hexDigits[v%16]
		v /= 16
	}
	return "0x" + string(buf[i:])
}
