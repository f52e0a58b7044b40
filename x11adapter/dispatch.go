package x11adapter

import (
	"context"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	log "github.com/sirupsen/logrus"

	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/command"
	"github.com/sashwm/sash/frame"
	"github.com/sashwm/sash/geom"
	"github.com/sashwm/sash/tag"
	"github.com/sashwm/sash/wm"
	"github.com/sashwm/sash/xserver"
)

// Dispatcher drains the X connection's event queue and routes each
// event to the matching wm.World method, the single-threaded loop spec
// §5 requires ("all core state transitions happen on one logical
// thread driven by an external event dispatch loop"). IPCRequests, if
// set, is drained on the same loop so the control-socket accept
// goroutine never calls into World directly — it only ever hands a
// Request across this channel and waits on its Reply.
type Dispatcher struct {
	Adapter     *Adapter
	World       *wm.World
	IPCRequests <-chan command.Request
}

// Run blocks reading events until ctx is cancelled or the connection
// errors out. It is meant to be supervised by a suture.Service wrapper
// in cmd/tilewm, matching cortile's own long-lived event-read goroutine.
func (d *Dispatcher) Run(ctx context.Context) error {
	events := make(chan xgb.Event, 64)
	errs := make(chan error, 1)
	go d.pump(events, errs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			return err
		case ev := <-events:
			d.handle(ev)
		case req := <-d.IPCRequests:
			d.handleIPC(req)
		}
	}
}

// handleIPC runs one control-socket request through Dispatch on the
// dispatcher's own goroutine and hands the result back over Reply,
// the only point where IPC-originated argv reaches wm.World.
func (d *Dispatcher) handleIPC(req command.Request) {
	out, kind, msg, code := command.Dispatch(d.World, req.Argv)
	req.Reply <- command.Result{Output: out, ErrKind: kind, ErrMsg: msg, ExitCode: code}
}

func (d *Dispatcher) pump(out chan<- xgb.Event, errs chan<- error) {
	for {
		ev, err := d.Adapter.X.Conn().WaitForEvent()
		if err != nil {
			errs <- err
			return
		}
		if ev == nil {
			continue
		}
		out <- ev
	}
}

func (d *Dispatcher) handle(raw xgb.Event) {
	switch ev := raw.(type) {
	case xproto.MapRequestEvent:
		if err := d.World.ManageClient(xserver.WindowID(ev.Window)); err != nil {
			log.WithError(err).Warn("wm: manage client failed")
		}
		d.World.Reconcile()
	case xproto.UnmapNotifyEvent:
		w := xserver.WindowID(ev.Window)
		if c := d.World.Client(w); c != nil {
			if c.ObserveUnmap() {
				return
			}
		}
		if err := d.World.UnmanageClient(w); err != nil {
			log.WithError(err).Warn("wm: unmanage client failed")
		}
		d.World.Reconcile()
	case xproto.DestroyNotifyEvent:
		if err := d.World.UnmanageClient(xserver.WindowID(ev.Window)); err != nil {
			log.WithError(err).Warn("wm: unmanage client failed")
		}
		d.World.Reconcile()
	case xproto.PropertyNotifyEvent:
		d.handleProperty(ev)
	case xproto.ConfigureRequestEvent:
		d.handleConfigureRequest(ev)
	case xproto.EnterNotifyEvent:
		if c := d.World.Client(xserver.WindowID(ev.Event)); c != nil {
			t := d.World.FindTag(c.TagName)
			d.World.Focus.Focus(c, t, d.World.Settings.Get().RaiseOnFocus, d.frameIsMaxTiling(c, t))
		}
	}
}

// frameIsMaxTiling reports whether c's own leaf frame is in Max layout,
// the second disjunct of window_focus's raise condition (spec §4.7
// step 3: "... or if the current frame is in Max layout and the tag is
// tiling").
func (d *Dispatcher) frameIsMaxTiling(c *client.Client, t *tag.Tag) bool {
	if t == nil || t.Floating {
		return false
	}
	leaf := frame.FindClient(t.Root, c.Window)
	return leaf != nil && leaf.Kind == frame.Max
}

func (d *Dispatcher) handleProperty(ev xproto.PropertyNotifyEvent) {
	w := xserver.WindowID(ev.Window)
	c := d.World.Client(w)
	if c == nil {
		return
	}
	switch ev.Atom {
	case d.atom("WM_HINTS"):
		hints, err := d.Adapter.GetWMHints(w)
		if err != nil {
			return
		}
		t := d.World.FindTag(c.TagName)
		d.World.Focus.SetUrgent(c, hints.UrgencyHint, t)
	case d.atom("WM_NORMAL_HINTS"):
		if hints, err := d.Adapter.GetSizeHints(w); err == nil {
			c.Hints = client.SizeHints(hints)
			d.World.Reconcile()
		}
	case d.atom("_NET_WM_NAME"), d.atom("WM_NAME"):
		if name, err := d.Adapter.GetWMName(w); err == nil {
			c.Title = name
		}
	}
}

func (d *Dispatcher) handleConfigureRequest(ev xproto.ConfigureRequestEvent) {
	w := xserver.WindowID(ev.Window)
	c := d.World.Client(w)
	r := geom.Rect{X: int(ev.X), Y: int(ev.Y), W: int(ev.Width), H: int(ev.Height)}
	if c == nil {
		// Unmanaged window: honor the request verbatim (spec §6).
		d.Adapter.MoveResizeWindow(w, r)
		return
	}
	if c.Fullscreen || !d.tagIsFloating(c) {
		// Tiling/fullscreen clients don't get to resize themselves;
		// re-send their committed geometry instead (spec §6 "may be
		// honored subject to fullscreen/tiling").
		d.Adapter.SendConfigureNotify(w, c.LastInnerRect)
		return
	}
	d.Adapter.MoveResizeWindow(w, r)
}

func (d *Dispatcher) tagIsFloating(c *client.Client) bool {
	t := d.World.FindTag(c.TagName)
	return t != nil && t.Floating
}

// atom interns a property atom by name on every call. This trades a
// round-trip for simplicity; xgbutil's own property-get helpers already
// cache far hotter paths, and PropertyNotify volume is low compared to
// layout churn.
func (d *Dispatcher) atom(name string) xproto.Atom {
	reply, err := xproto.InternAtom(d.Adapter.X.Conn(), true, uint16(len(name)), name).Reply()
	if err != nil || reply == nil {
		return 0
	}
	return reply.Atom
}
