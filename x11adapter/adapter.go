// Package x11adapter is the one concrete implementation of xserver.Server,
// the X11 transport boundary spec §1 keeps named-only at interfaces. It
// is grounded on cortile's store/root.go and store/client.go, which use
// exactly this xgbutil/xgb/ewmh/icccm stack against a live connection;
// where cortile has no convenience wrapper (reparenting, restacking,
// save-set, border width) this adapter drops to the raw xproto requests
// the way store/root.go itself does for RandR and pointer queries.
package x11adapter

import (
	"fmt"

	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"
	"github.com/jezek/xgbutil/xwindow"

	log "github.com/sirupsen/logrus"

	"github.com/sashwm/sash/geom"
	"github.com/sashwm/sash/xserver"
)

// Adapter implements xserver.Server over a live xgbutil connection.
type Adapter struct {
	X         *xgbutil.XUtil
	ownWindow map[xserver.WindowID]bool
}

// New connects to the display named by the DISPLAY environment variable
// (empty string), mirroring cortile's own InitRoot connection setup.
func New() (*Adapter, error) {
	x, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11adapter: connect: %w", err)
	}
	if err := randr.Init(x.Conn()); err != nil {
		log.WithError(err).Warn("x11adapter: randr unavailable, multi-monitor support degraded")
	}
	if err := selectRootEventMask(x); err != nil {
		x.Conn().Close()
		return nil, fmt.Errorf("x11adapter: another window manager is already running: %w", err)
	}
	return &Adapter{X: x, ownWindow: make(map[xserver.WindowID]bool)}, nil
}

// selectRootEventMask requests SubstructureRedirect on the root window,
// the mask that turns MapRequest/ConfigureRequest into events this
// process receives instead of the X server honoring them itself. Only
// one client may hold this mask at a time, so its failure here means a
// window manager is already running, mirroring cortile's own
// InitRoot check.
func selectRootEventMask(x *xgbutil.XUtil) error {
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	return xproto.ChangeWindowAttributesChecked(x.Conn(), x.RootWin(), xproto.CwEventMask, []uint32{mask}).Check()
}

func (a *Adapter) win(w xserver.WindowID) xproto.Window { return xproto.Window(w) }

func (a *Adapter) RegisterOwnWindow(w xserver.WindowID) { a.ownWindow[w] = true }

func (a *Adapter) IsOwnWindow(w xserver.WindowID) bool { return a.ownWindow[w] }

func (a *Adapter) GetGeometry(w xserver.WindowID) (xserver.Geometry, error) {
	g, err := xwindow.RawGeometry(a.X, xproto.Drawable(w))
	if err != nil {
		return xserver.Geometry{}, err
	}
	return xserver.Geometry{Rect: geom.Rect{X: g.X(), Y: g.Y(), W: g.Width(), H: g.Height()}}, nil
}

func (a *Adapter) GetWMName(w xserver.WindowID) (string, error) {
	if name, err := ewmh.WmNameGet(a.X, a.win(w)); err == nil && name != "" {
		return name, nil
	}
	return icccm.WmNameGet(a.X, a.win(w))
}

func (a *Adapter) GetWMHints(w xserver.WindowID) (xserver.WMHints, error) {
	h, err := icccm.WmHintsGet(a.X, a.win(w))
	if err != nil {
		return xserver.WMHints{}, err
	}
	return xserver.WMHints{
		InputHintSet: h.Flags&icccm.HintInput != 0,
		Input:        h.Input == 1,
		UrgencyHint:  h.Flags&icccm.HintUrgency != 0,
	}, nil
}

func (a *Adapter) SetWMHints(w xserver.WindowID, h xserver.WMHints) error {
	flags := uint(0)
	input := uint(0)
	if h.InputHintSet {
		flags |= icccm.HintInput
		if h.Input {
			input = 1
		}
	}
	if h.UrgencyHint {
		flags |= icccm.HintUrgency
	}
	return icccm.WmHintsSet(a.X, a.win(w), &icccm.Hints{Flags: flags, Input: input})
}

func (a *Adapter) GetSizeHints(w xserver.WindowID) (xserver.SizeHints, error) {
	nh, err := icccm.WmNormalHintsGet(a.X, a.win(w))
	if err != nil {
		return xserver.SizeHints{}, err
	}
	return xserver.SizeHints{
		BaseW: int(nh.BaseWidth), BaseH: int(nh.BaseHeight),
		MinW: int(nh.MinWidth), MinH: int(nh.MinHeight),
		MaxW: int(nh.MaxWidth), MaxH: int(nh.MaxHeight),
		IncW: int(nh.WidthInc), IncH: int(nh.HeightInc),
		MinAspect: aspectRatio(nh.MinAspectNum, nh.MinAspectDen),
		MaxAspect: aspectRatio(nh.MaxAspectNum, nh.MaxAspectDen),
	}, nil
}

func aspectRatio(num, den uint) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func (a *Adapter) SetInputFocus(w xserver.WindowID) error {
	return xproto.SetInputFocusChecked(a.X.Conn(), xproto.InputFocusPointerRoot, a.win(w), xproto.TimeCurrentTime).Check()
}

func (a *Adapter) MoveResizeWindow(w xserver.WindowID, r geom.Rect) error {
	return xproto.ConfigureWindowChecked(a.X.Conn(), a.win(w),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(r.X), uint32(r.Y), uint32(r.W), uint32(r.H)},
	).Check()
}

func (a *Adapter) ReparentWindow(w, parent xserver.WindowID, x, y int) error {
	target := parent
	if target == xserver.None {
		target = xserver.WindowID(a.X.RootWin())
	}
	return xproto.ReparentWindowChecked(a.X.Conn(), a.win(w), a.win(target), int16(x), int16(y)).Check()
}

func (a *Adapter) MapWindow(w xserver.WindowID) error {
	return xproto.MapWindowChecked(a.X.Conn(), a.win(w)).Check()
}

func (a *Adapter) UnmapWindow(w xserver.WindowID) error {
	return xproto.UnmapWindowChecked(a.X.Conn(), a.win(w)).Check()
}

// RestackWindows issues one ConfigureWindow per adjacent pair, chaining
// each window below the previous one, the manual equivalent of Xlib's
// XRestackWindows which xproto has no single-call form for.
func (a *Adapter) RestackWindows(order []xserver.WindowID) error {
	for i := 1; i < len(order); i++ {
		err := xproto.ConfigureWindowChecked(a.X.Conn(), a.win(order[i]),
			xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			[]uint32{uint32(order[i-1]), uint32(xproto.StackModeBelow)},
		).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) SendConfigureNotify(w xserver.WindowID, inner geom.Rect) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            a.win(w),
		Window:           a.win(w),
		X:                int16(inner.X),
		Y:                int16(inner.Y),
		Width:            uint16(inner.W),
		Height:           uint16(inner.H),
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(a.X.Conn(), false, a.win(w), xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

func (a *Adapter) SendClientMessage(w xserver.WindowID, protocol string) error {
	return ewmh.ClientEvent(a.X, a.win(w), "WM_PROTOCOLS", protocol)
}

func (a *Adapter) SetBorderWidth(w xserver.WindowID, px int) error {
	return xproto.ConfigureWindowChecked(a.X.Conn(), a.win(w), xproto.ConfigWindowBorderWidth, []uint32{uint32(px)}).Check()
}

func (a *Adapter) ChangeSaveSetInsert(w xserver.WindowID) error {
	return xproto.ChangeSaveSetChecked(a.X.Conn(), xproto.SetModeInsert, a.win(w)).Check()
}

func (a *Adapter) SelectCoreEventMask(w xserver.WindowID) error {
	mask := uint32(xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange | xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify)
	return xproto.ChangeWindowAttributesChecked(a.X.Conn(), a.win(w), xproto.CwEventMask, []uint32{mask}).Check()
}

func (a *Adapter) SelectDecorationEventMask(w xserver.WindowID) error {
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify | xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease)
	return xproto.ChangeWindowAttributesChecked(a.X.Conn(), a.win(w), xproto.CwEventMask, []uint32{mask}).Check()
}

func (a *Adapter) DisableEventSelection(w xserver.WindowID) error {
	return xproto.ChangeWindowAttributesChecked(a.X.Conn(), a.win(w), xproto.CwEventMask, []uint32{0}).Check()
}

func (a *Adapter) CreateDecorationWindow(r geom.Rect) (xserver.WindowID, error) {
	id, err := xwindow.Generate(a.X)
	if err != nil {
		return xserver.None, err
	}
	err = xproto.CreateWindowChecked(
		a.X.Conn(), a.X.Screen().RootDepth, id.Id, a.X.RootWin(),
		int16(r.X), int16(r.Y), uint16(r.W), uint16(r.H), 0,
		xproto.WindowClassInputOutput, a.X.Screen().RootVisual,
		0, nil,
	).Check()
	if err != nil {
		return xserver.None, err
	}
	w := xserver.WindowID(id.Id)
	a.RegisterOwnWindow(w)
	return w, nil
}

func (a *Adapter) DestroyWindow(w xserver.WindowID) error {
	delete(a.ownWindow, w)
	return xproto.DestroyWindowChecked(a.X.Conn(), a.win(w)).Check()
}
