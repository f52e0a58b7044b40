package x11adapter

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/ewmh"

	log "github.com/sirupsen/logrus"

	"github.com/sashwm/sash/client"
	"github.com/sashwm/sash/xserver"
)

// EWMHBridge implements wm.EWMHBridge over the same connection the
// Adapter uses, grounded on cortile's ewmh.WmStateReq/ClientEvent calls
// in store/client.go.
type EWMHBridge struct {
	*Adapter
}

func NewEWMHBridge(a *Adapter) *EWMHBridge { return &EWMHBridge{Adapter: a} }

func (b *EWMHBridge) SetActiveWindow(w xserver.WindowID) {
	if err := ewmh.ActiveWindowSet(b.X, b.win(w)); err != nil {
		log.WithError(err).Debug("x11adapter: set active window")
	}
}

func (b *EWMHBridge) PublishClientList(ids []client.ID) {
	wins := make([]xproto.Window, len(ids))
	for i, id := range ids {
		wins[i] = b.win(id)
	}
	if err := ewmh.ClientListSet(b.X, wins); err != nil {
		log.WithError(err).Debug("x11adapter: publish client list")
	}
}

func (b *EWMHBridge) PublishClientListStacking(ids []xserver.WindowID) {
	wins := make([]xproto.Window, len(ids))
	for i, id := range ids {
		wins[i] = b.win(id)
	}
	if err := ewmh.ClientListStackingSet(b.X, wins); err != nil {
		log.WithError(err).Debug("x11adapter: publish client list stacking")
	}
}

func (b *EWMHBridge) PublishWindowState(w xserver.WindowID, fullscreen bool) {
	if !fullscreen {
		return
	}
	if err := ewmh.WmStateReq(b.X, b.win(w), ewmh.StateAdd, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		log.WithError(err).Debug("x11adapter: publish fullscreen state")
	}
}

func (b *EWMHBridge) ClearWindowState(w xserver.WindowID) {
	if err := ewmh.WmStateReq(b.X, b.win(w), ewmh.StateRemove, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		log.WithError(err).Debug("x11adapter: clear fullscreen state")
	}
}
