// Package xserver pins the X11 transport boundary named in spec §6. The
// core packages (stack, client, frame, tag, monitor, focus, wm) only
// ever talk to a Server interface; the real connection lives in package
// x11adapter. This keeps the transport "named only at interface
// boundaries" the way spec §1 requires, while still letting one
// concrete adapter exercise the real xgb/xgbutil stack.
package xserver

import "github.com/sashwm/sash/geom"

// WindowID is an opaque X window identifier. The xgb adapter backs it
// with xproto.Window; the core never interprets its bits.
type WindowID uint32

const None WindowID = 0

// Geometry is what manage_client reads at adoption time (spec §4.1 step 1).
type Geometry struct {
	Rect geom.Rect
}

// SizeHints mirrors the ICCCM WM_NORMAL_HINTS fields spec §4.5 operates on.
type SizeHints struct {
	BaseW, BaseH int
	MinW, MinH   int
	MaxW, MaxH   int
	IncW, IncH   int
	MinAspect    float64
	MaxAspect    float64
}

// WMHints mirrors the subset of XWMHints the core reads/writes (spec §4.7,
// §4.1 step 9).
type WMHints struct {
	InputHintSet bool
	Input        bool
	UrgencyHint  bool
}

// Scheme is an opaque decoration scheme handle; the core never inspects
// its contents, only passes it back to the Decorator boundary.
type Scheme interface{}

// Server is the full outbound X surface named in spec §6. One adapter
// (package x11adapter) implements it against a live X connection; tests
// implement it with an in-memory fake.
type Server interface {
	// Geometry and properties.
	GetGeometry(w WindowID) (Geometry, error)
	GetWMName(w WindowID) (string, error)
	GetWMHints(w WindowID) (WMHints, error)
	GetSizeHints(w WindowID) (SizeHints, error)
	SetWMHints(w WindowID, h WMHints) error

	// Outbound operations of spec §6.
	SetInputFocus(w WindowID) error
	MoveResizeWindow(w WindowID, r geom.Rect) error
	ReparentWindow(w WindowID, parent WindowID, x, y int) error
	MapWindow(w WindowID) error
	UnmapWindow(w WindowID) error
	RestackWindows(order []WindowID) error
	SendConfigureNotify(w WindowID, inner geom.Rect) error
	SendClientMessage(w WindowID, protocol string) error
	SetBorderWidth(w WindowID, px int) error
	ChangeSaveSetInsert(w WindowID) error
	SelectCoreEventMask(w WindowID) error
	SelectDecorationEventMask(w WindowID) error
	DisableEventSelection(w WindowID) error

	// CreateDecorationWindow/DestroyWindow back the decoration frame window that
	// client windows get reparented under (spec §4.1 step 11).
	CreateDecorationWindow(r geom.Rect) (WindowID, error)
	DestroyWindow(w WindowID) error

	// IsOwnWindow reports whether w belongs to the manager itself (spec
	// §4.1 pre-check "must not be one of the manager's own auxiliary
	// windows").
	IsOwnWindow(w WindowID) bool
}
