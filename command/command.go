// Package command implements the textual command surface of spec §4.10
// and §6 ("Commands are textual, with argv+output buffer contracts"),
// plus the tag/monitor manipulation verbs supplemented from
// original_source/src/tag.h per SPEC_FULL §4.15. Grounded on cortile's
// input/mousebinding.go for the style of dispatching a small verb set
// against the shared world state.
package command

import (
	"strings"

	"github.com/sashwm/sash/wm"
	"github.com/sashwm/sash/wmerrors"
)

// Close implements spec §4.10's `close [window-spec]`.
func Close(w *wm.World, spec string) (string, *wmerrors.Error) {
	id, _ := w.ResolveWindowSpec(spec)
	if id == 0 {
		return "", wmerrors.New(wmerrors.InvalidArgument, "window spec did not resolve: "+spec)
	}
	if err := w.Server.SendClientMessage(id, "WM_DELETE_WINDOW"); err != nil {
		return "", wmerrors.Wrap(wmerrors.XRequestFailed, "send WM_DELETE_WINDOW", err)
	}
	return "", nil
}

// SetProperty implements spec §4.10's
// `set_property {fullscreen|pseudotile} {on|off|toggle}`.
func SetProperty(w *wm.World, property, value string) (string, *wmerrors.Error) {
	c := w.Focus.LastFocused()
	if c == nil {
		return "", nil // no focused client: success, no-op per spec §4.10
	}

	var current bool
	switch property {
	case "fullscreen":
		current = c.Fullscreen
	case "pseudotile":
		current = c.Pseudotile
	default:
		return "", wmerrors.New(wmerrors.InvalidArgument, "unknown property: "+property)
	}

	desired, err := resolveToggle(value, current)
	if err != nil {
		return "", err
	}
	if desired == current {
		return "", nil
	}

	switch property {
	case "fullscreen":
		w.SetFullscreen(c, desired)
	case "pseudotile":
		c.Pseudotile = desired
		w.Reconcile()
	}
	return "", nil
}

func resolveToggle(value string, current bool) (bool, *wmerrors.Error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "toggle":
		return !current, nil
	default:
		return false, wmerrors.New(wmerrors.InvalidArgument, "unknown value: "+value)
	}
}

// TagAdd implements the supplemented `tag add <name>`.
func TagAdd(w *wm.World, name string) (string, *wmerrors.Error) {
	_, err := w.AddTag(name)
	return "", err
}

// TagRemove implements the supplemented `tag remove <name>`.
func TagRemove(w *wm.World, name string) (string, *wmerrors.Error) {
	return "", w.RemoveTag(name)
}

// TagRename implements the supplemented `tag rename <old> <new>`.
func TagRename(w *wm.World, oldName, newName string) (string, *wmerrors.Error) {
	return "", w.RenameTag(oldName, newName)
}

// TagMove implements the supplemented `tag move <window-spec> <tag>`: it
// migrates a client between tags, which spec §3's Tag section defers to
// "the caller" (whoever removes a tag's last client reference first).
func TagMove(w *wm.World, windowSpec, tagName string) (string, *wmerrors.Error) {
	_, c := w.ResolveWindowSpec(windowSpec)
	if c == nil {
		return "", wmerrors.New(wmerrors.InvalidArgument, "window spec did not resolve: "+windowSpec)
	}
	dest := w.FindTag(tagName)
	if dest == nil {
		return "", wmerrors.New(wmerrors.NotFound, "no such tag: "+tagName)
	}
	if c.TagName == dest.Name {
		return "", nil
	}
	if err := w.MoveClientToTag(c, dest); err != nil {
		return "", err
	}
	return "", nil
}

// TagFloating implements the supplemented
// `tag floating <name> {on|off|toggle}`.
func TagFloating(w *wm.World, name, value string) (string, *wmerrors.Error) {
	t := w.FindTag(name)
	if t == nil {
		return "", wmerrors.New(wmerrors.NotFound, "no such tag: "+name)
	}
	desired, err := resolveToggle(value, t.Floating)
	if err != nil {
		return "", err
	}
	if desired == t.Floating {
		return "", nil
	}
	t.Floating = desired
	t.MarkDirty()
	w.Reconcile()
	return "", nil
}

// MonitorFocus implements the supplemented `monitor focus <index>`.
func MonitorFocus(w *wm.World, index string) (string, *wmerrors.Error) {
	n, parseErr := parseIndex(index)
	if parseErr != nil {
		return "", parseErr
	}
	if !w.Monitors().FocusIndex(n) {
		return "", wmerrors.New(wmerrors.NotFound, "no such monitor index")
	}
	return "", nil
}

func parseIndex(s string) (int, *wmerrors.Error) {
	n := 0
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, wmerrors.New(wmerrors.InvalidArgument, "missing index")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, wmerrors.New(wmerrors.InvalidArgument, "not a number: "+s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}
