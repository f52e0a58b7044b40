// Package wm wires the core subsystems (stack, client, frame, tag,
// monitor, focus) into the single World/context struct spec §9 calls
// for, replacing the original's module-level globals (g_clients,
// lastfocus, g_startup). Grounded on cortile's desktop.Tracker
// (desktop/tracker.go) as the orchestrator analogue: one struct owning
// every live collection plus the methods that react to X events and
// commands.
package wm

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/focus"
	"github.com/sashwm/sash/frame"
	"github.com/sashwm/sash/geom"
	"github.com/sashwm/sash/hook"
	"github.com/sashwm/sash/monitor"
	"github.com/sashwm/sash/settings"
	"github.com/sashwm/sash/stack"
	"github.com/sashwm/sash/tag"
	"github.com/sashwm/sash/wmerrors"
	"github.com/sashwm/sash/xserver"
)

// Phase replaces the original's g_startup boolean with the explicit
// three-state enum spec §9 asks for.
type Phase int

const (
	PhaseInitialSweep Phase = iota
	PhaseRunning
	PhaseShuttingDown
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialSweep:
		return "initial-sweep"
	case PhaseRunning:
		return "running"
	case PhaseShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// EWMHBridge is the out-of-scope EWMH property bridge (spec §1, §6).
// Its SetActiveWindow method also satisfies focus.EWMHActiveWindow.
type EWMHBridge interface {
	SetActiveWindow(w xserver.WindowID)
	PublishClientList(ids []client.ID)
	PublishClientListStacking(ids []xserver.WindowID)
	PublishWindowState(w xserver.WindowID, fullscreen bool)
	ClearWindowState(w xserver.WindowID)
}

// World is the single struct spec §9 asks for in place of module-level
// globals: every live collection plus the boundary collaborators. All
// public methods assume the single-threaded dispatcher discipline of
// spec §5 — no method here may be called concurrently with another.
type World struct {
	Server   xserver.Server
	Emitter  hook.Emitter
	Rules    client.RulesEngine
	Ewmh     EWMHBridge
	Settings *settings.Store
	Focus    *focus.Machine

	Phase Phase

	clients  map[client.ID]*client.Client
	tags     *tag.List
	monitors *monitor.List

	decoration client.Decorator
}

// New constructs an empty World. Callers add at least one tag and one
// monitor before the first ManageClient call.
func New(server xserver.Server, emitter hook.Emitter, rules client.RulesEngine, ewmh EWMHBridge, st *settings.Store, dec client.Decorator) *World {
	if dec == nil {
		dec = client.NoopDecorator{}
	}
	w := &World{
		Server:     server,
		Emitter:    emitter,
		Rules:      rules,
		Ewmh:       ewmh,
		Settings:   st,
		Phase:      PhaseInitialSweep,
		clients:    make(map[client.ID]*client.Client),
		tags:       tag.NewList(),
		monitors:   monitor.NewList(),
		decoration: dec,
	}
	w.Focus = &focus.Machine{
		Input:   server,
		Buttons: buttonAdapter{},
		Keymask: noopKeymask{},
		EWMH:    ewmh,
		Emitter: emitter,
	}
	return w
}

// buttonAdapter is a placeholder focus.Buttons: real button grabbing is
// part of the pointer-drag subsystem spec §1 keeps external, so these
// are no-ops until a concrete pointer-drag adapter is wired in.
type buttonAdapter struct{}

func (buttonAdapter) GrabButtons(xserver.WindowID)   {}
func (buttonAdapter) UngrabButtons(xserver.WindowID) {}

type noopKeymask struct{}

func (noopKeymask) Install(string) {}

// AddTag creates a named tag. Duplicate names are rejected.
func (w *World) AddTag(name string) (*tag.Tag, *wmerrors.Error) {
	if w.tags.Find(name) != nil {
		return nil, wmerrors.New(wmerrors.InvalidArgument, "tag already exists: "+name)
	}
	return w.tags.Add(name), nil
}

func (w *World) FindTag(name string) *tag.Tag { return w.tags.Find(name) }

// RemoveTag enforces spec §3's "removal is forbidden when any client
// still references it".
func (w *World) RemoveTag(name string) *wmerrors.Error {
	ok := w.tags.Remove(name, func(t *tag.Tag) bool {
		for _, c := range w.clients {
			if c.TagName == t.Name {
				return true
			}
		}
		return false
	})
	if !ok {
		if w.tags.Find(name) == nil {
			return wmerrors.New(wmerrors.NotFound, "no such tag: "+name)
		}
		return wmerrors.New(wmerrors.InvalidArgument, "tag still has clients: "+name)
	}
	return nil
}

func (w *World) RenameTag(oldName, newName string) *wmerrors.Error {
	if !w.tags.Rename(oldName, newName) {
		return wmerrors.New(wmerrors.InvalidArgument, "rename failed (missing or duplicate name)")
	}
	return nil
}

// MoveClientToTag migrates c from its current tag to dest: removes it
// from its old frame and stack, and inserts it into dest's default
// frame and stack, consistently with spec §3's ownership rules (the
// "caller migrates clients first" step that tag removal defers to).
// The fresh slice it allocates re-joins every layer the old one held
// (Fullscreen, and Focus if c is the focused client), preserving
// invariant I6 and single-focus membership across the move.
func (w *World) MoveClientToTag(c *client.Client, dest *tag.Tag) *wmerrors.Error {
	src := w.tags.Find(c.TagName)
	if src == nil {
		return wmerrors.New(wmerrors.InconsistentState, "client has no resolvable source tag")
	}
	wasFocused := w.Focus.LastFocused() == c

	frame.RemoveClient(src.Root, c.Window)
	if c.Slice != nil {
		src.Stack.Remove(c.Slice)
	}

	c.TagName = dest.Name
	c.Slice = stack.NewClientSlice(c.Window)
	layers := []stack.Layer{stack.Normal}
	if c.Fullscreen {
		layers = append(layers, stack.Fullscreen)
	}
	if wasFocused {
		layers = append(layers, stack.Focus)
	}
	dest.Stack.Insert(c.Slice, layers...)
	frame.InsertClient(dest.Root, "", c.Window)

	src.SetOccupied(w.tagHasClients(src))
	dest.SetOccupied(true)
	src.MarkDirty()
	dest.MarkDirty()
	w.Reconcile()
	return nil
}

func (w *World) AddMonitor(m *monitor.Monitor) { w.monitors.Add(m) }

func (w *World) Monitors() *monitor.List { return w.monitors }
func (w *World) Tags() *tag.List         { return w.tags }

// Client looks up a managed client by window id.
func (w *World) Client(id client.ID) *client.Client { return w.clients[id] }

func (w *World) IsManaged(id client.ID) bool {
	_, ok := w.clients[id]
	return ok
}

// ManageClient implements spec §4.1 verbatim, against the World's own
// collections instead of module globals.
func (w *World) ManageClient(win xserver.WindowID) error {
	if w.Server.IsOwnWindow(win) {
		return nil // B2: manager's own window, not managed, no residue
	}
	if w.IsManaged(win) {
		return nil // B1: already known, not managed, no mutation
	}

	geo, err := w.Server.GetGeometry(win)
	if err != nil {
		return wmerrors.Wrap(wmerrors.XRequestFailed, "read geometry", err)
	}

	title, _ := w.Server.GetWMName(win)

	changes := w.Rules.Evaluate(win, title, "")
	if !changes.Manage {
		w.Server.MapWindow(win)
		return nil
	}

	t := w.resolveTagForAdoption(changes)
	if t == nil {
		return wmerrors.New(wmerrors.InconsistentState, "no tag available for adoption")
	}

	c := client.New(win, geo.Rect, w.decoration)
	c.Title = title
	c.TagName = t.Name
	c.Keymask = changes.Keymask
	w.clients[win] = c

	c.Slice = stack.NewClientSlice(win)
	t.Stack.Insert(c.Slice, stack.Normal)

	frame.InsertClient(t.Root, changes.TreeIndex, win)

	hints, _ := w.Server.GetSizeHints(win)
	c.Hints = client.SizeHints(hints)
	wmHints, _ := w.Server.GetWMHints(win)
	c.NeverFocus = wmHints.InputHintSet && !wmHints.Input

	if changes.Focus {
		frame.SelectClient(t.Root, win)
	}

	deco, err := w.Server.CreateDecorationWindow(geo.Rect)
	if err != nil {
		log.WithError(err).Warn("wm: create decoration window failed, reparenting to root")
		deco = xserver.None
	} else {
		w.Server.SelectDecorationEventMask(deco)
	}
	c.DecorationWindow = deco
	w.Server.ReparentWindow(win, deco, 0, 0)
	w.Server.ChangeSaveSetInsert(win)
	w.Server.SelectCoreEventMask(win)
	w.Server.SetBorderWidth(win, 0)
	c.Decoration().SetupFrame(c)

	if w.Phase == PhaseInitialSweep {
		c.BeginIgnoredUnmap()
	}

	if changes.Fullscreen {
		c.SetFullscreen(true, t.Stack)
		w.Ewmh.PublishWindowState(win, true)
	}
	w.Emitter.Emit("manage", hexID(win))

	t.SetOccupied(true)
	if mon := w.monitorShowing(t); mon != nil {
		c.Visible = true
		w.layoutMonitor(mon)
	}

	w.Server.SendConfigureNotify(win, c.LastInnerRect)

	w.Ewmh.PublishClientList(w.clientIDs())
	return nil
}

// resolveTagForAdoption implements spec §4.1 step 5.
func (w *World) resolveTagForAdoption(changes client.Changes) *tag.Tag {
	if changes.TagName != "" {
		if t := w.tags.Find(changes.TagName); t != nil {
			if changes.MonitorName != "" && changes.SwitchTag {
				if mon := w.monitors.ByName(changes.MonitorName); mon != nil {
					mon.CurrentTag = t.Name
				}
			}
			return t
		}
	}
	if changes.MonitorName != "" {
		if mon := w.monitors.ByName(changes.MonitorName); mon != nil {
			if t := w.tags.Find(mon.CurrentTag); t != nil {
				return t
			}
		}
	}
	if cur := w.monitors.Current(); cur != nil {
		return w.tags.Find(cur.CurrentTag)
	}
	return nil
}

func (w *World) monitorShowing(t *tag.Tag) *monitor.Monitor {
	for _, m := range w.monitors.All() {
		if m.CurrentTag == t.Name {
			return m
		}
	}
	return nil
}

func (w *World) clientIDs() []client.ID {
	ids := make([]client.ID, 0, len(w.clients))
	for id := range w.clients {
		ids = append(ids, id)
	}
	return ids
}

// UnmanageClient implements spec §4.2.
func (w *World) UnmanageClient(win xserver.WindowID) error {
	c, ok := w.clients[win]
	if !ok {
		return nil
	}
	c.Dragged = false

	t := w.tags.Find(c.TagName)
	if t != nil {
		frame.RemoveClient(t.Root, win)
	}

	w.Server.DisableEventSelection(win)
	w.Server.UnmapWindow(win)
	w.Server.ReparentWindow(win, xserver.None, 0, 0)
	if c.DecorationWindow != xserver.None {
		w.Server.UnmapWindow(c.DecorationWindow)
		w.Server.DestroyWindow(c.DecorationWindow)
	}

	w.Ewmh.ClearWindowState(win)

	if t != nil && c.Slice != nil {
		t.Stack.Remove(c.Slice)
	}
	if w.Focus.LastFocused() == c {
		w.Focus.UnfocusLast(t)
	}
	c.Decoration().Free(c)
	delete(w.clients, win)

	if t != nil {
		w.updateTagFocusLayer(t)
		if mon := w.monitorShowing(t); mon != nil {
			w.layoutMonitor(mon)
		}
		t.SetOccupied(w.tagHasClients(t))
		t.MarkDirty()
	}
	w.Ewmh.PublishClientList(w.clientIDs())
	w.Emitter.Emit("unmanage", hexID(win))
	return nil
}

func (w *World) tagHasClients(t *tag.Tag) bool {
	for _, c := range w.clients {
		if c.TagName == t.Name {
			return true
		}
	}
	return false
}

func (w *World) updateTagFocusLayer(t *tag.Tag) {
	last := w.Focus.LastFocused()
	if last == nil || last.TagName != t.Name {
		return
	}
	if last.Slice != nil {
		t.Stack.AddLayer(last.Slice, stack.Focus)
	}
}

// SetFullscreen implements spec §4.6.
func (w *World) SetFullscreen(c *client.Client, on bool) {
	if c == nil {
		return
	}
	t := w.tags.Find(c.TagName)
	if t == nil {
		return
	}
	if !c.SetFullscreen(on, t.Stack) {
		return
	}
	w.updateTagFocusLayer(t)
	if mon := w.monitorShowing(t); mon != nil {
		w.layoutMonitor(mon)
	}
	if on {
		w.Ewmh.PublishWindowState(c.Window, true)
	} else {
		w.Ewmh.ClearWindowState(c.Window)
	}
	state := "off"
	if on {
		state = "on"
	}
	w.Emitter.Emit("fullscreen", state, hexID(c.Window))
}

// ResizeFullscreen and ResizeFloating guard on a nil monitor. Spec §9
// flags the original's `if (!!m) return;` as an inverted bug; fixed
// here to the intended `if m == nil { return }`.
func (w *World) ResizeFullscreen(c *client.Client, m *monitor.Monitor) {
	if m == nil {
		return
	}
	outer := m.Rect
	c.LastSize = outer
	c.LastInnerRect = outer
	w.Server.MoveResizeWindow(c.Window, outer)
	c.Decoration().ResizeOutline(c, outer, client.RoleFullscreen, w.schemeStateFor(c))
}

func (w *World) ResizeFloating(c *client.Client, m *monitor.Monitor) {
	if m == nil {
		return
	}
	treshold := w.Settings.Get().MonitorFloatTreshold
	target := client.ClampFloatToMonitor(c.FloatSize, m.UsableRect(), treshold)
	outW, outH, _ := c.ApplySizeHints(target.W, target.H, true)
	target.W, target.H = outW, outH
	c.LastSize = target
	c.LastInnerRect = target
	w.Server.MoveResizeWindow(c.Window, target)
	c.Decoration().ResizeOutline(c, target, client.RoleFloating, w.schemeStateFor(c))
}

func (w *World) schemeStateFor(c *client.Client) client.SchemeState {
	return c.SelectState(w.Focus.LastFocused() == c)
}

// layoutMonitor runs the layout pass of spec §4.4 over the tag
// currently shown on m, then restacks if anything became dirty.
func (w *World) layoutMonitor(m *monitor.Monitor) {
	t := w.tags.Find(m.CurrentTag)
	if t == nil {
		return
	}
	settingsValues := w.Settings.Get()
	usable := m.UsableRect()

	placements := frame.Layout(t.Root, usable)
	for _, p := range placements {
		c, ok := w.clients[p.Client]
		if !ok {
			continue
		}
		w.layoutOneClient(c, t, m, p, settingsValues.WindowGap, settingsValues.SmartWindowSurroundings)
	}

	if err := t.Stack.Restack(worldRestacker{w}); err != nil {
		log.WithError(err).Warn("wm: restack failed")
	}
	t.ClearDirty()
}

func (w *World) layoutOneClient(c *client.Client, t *tag.Tag, m *monitor.Monitor, p frame.Placement, gap int, smartSurroundings bool) {
	if c.Fullscreen {
		w.ResizeFullscreen(c, m)
		return
	}
	if t.Floating {
		w.ResizeFloating(c, m)
		return
	}

	rect := p.Rect
	leaf := frame.FindClient(t.Root, c.Window)
	smart := smartSurroundings && leaf != nil && leaf.QualifiesForSmartSurroundings() && !c.Pseudotile
	if !c.Pseudotile && !smart {
		rect = rect.Inset(gap/2, gap/2, gap/2, gap/2)
	}

	role := c.SelectScheme(false, smart)
	state := w.schemeStateFor(c)

	if c.Pseudotile {
		outW, outH, _ := c.ApplySizeHints(c.FloatSize.W, c.FloatSize.H, false)
		inner := geom.Rect{X: rect.X, Y: rect.Y, W: outW, H: outH}
		inner.X = rect.X + (rect.W-inner.W)/2
		inner.Y = rect.Y + (rect.H-inner.H)/2
		rect = inner
	}
	if rect.W < client.MinWidth {
		rect.W = client.MinWidth
	}
	if rect.H < client.MinHeight {
		rect.H = client.MinHeight
	}

	c.LastSize = rect
	c.LastInnerRect = rect
	w.Server.MoveResizeWindow(c.Window, rect)
	c.Decoration().ResizeOutline(c, rect, role, state)
}

type worldRestacker struct{ w *World }

func (r worldRestacker) RestackWindows(order []xserver.WindowID) error {
	return r.w.Server.RestackWindows(order)
}

func (r worldRestacker) PublishStacking(order []xserver.WindowID) {
	r.w.Ewmh.PublishClientListStacking(order)
}

// Reconcile runs the layout-and-restack pass spec §9 asks for as a
// single entry point every command and event handler calls before
// returning control to the event loop.
func (w *World) Reconcile() {
	for _, m := range w.monitors.All() {
		t := w.tags.Find(m.CurrentTag)
		if t != nil && t.Dirty {
			w.layoutMonitor(m)
		}
	}
}

// ResolveWindowSpec implements spec §4.9's string-to-client resolver.
func (w *World) ResolveWindowSpec(spec string) (xserver.WindowID, *client.Client) {
	switch spec {
	case "":
		last := w.Focus.LastFocused()
		if last == nil {
			return xserver.None, nil
		}
		return last.Window, last
	case "urgent":
		for id, c := range w.clients {
			if c.Urgent {
				return id, c
			}
		}
		return xserver.None, nil
	default:
		var raw uint64
		if _, err := fmt.Sscanf(spec, "0x%x", &raw); err != nil {
			if _, err := fmt.Sscanf(spec, "%d", &raw); err != nil {
				return xserver.None, nil
			}
		}
		id := xserver.WindowID(raw)
		return id, w.clients[id]
	}
}

// Shutdown implements clientlist_destroy (spec §5 Teardown, B5): every
// surviving client is restored to its floating geometry, reparented to
// root, and mapped, so application windows outlive the manager.
func (w *World) Shutdown() {
	w.Phase = PhaseShuttingDown
	for win, c := range w.clients {
		w.Server.MoveResizeWindow(win, c.FloatSize)
		w.Server.ReparentWindow(win, xserver.None, c.FloatSize.X, c.FloatSize.Y)
		w.Server.MapWindow(win)
		delete(w.clients, win)
	}
}

func hexID(w xserver.WindowID) string {
	return fmt.Sprintf("0x%x", uint32(w))
}
